// Command vlmscribe transcribes images with vision-language models, serves
// the transcription API and browses the transcription history.
package main

import (
	"fmt"
	"os"

	_ "github.com/kbukum/vlmscribe/storage/local"
	_ "github.com/kbukum/vlmscribe/storage/memory"
	_ "github.com/kbukum/vlmscribe/storage/s3"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
