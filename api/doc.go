// Package api exposes transcription, history and model listing as a JSON
// HTTP API on a gin router.
//
// Routes:
//
//	POST /api/transcriptions             run a transcription (multipart upload or JSON)
//	GET  /api/transcriptions             list history, newest first
//	GET  /api/transcriptions/:timestamp  one history entry
//	GET  /api/models                     supported models
//	POST /api/ner                        entity-tagged transcription
package api
