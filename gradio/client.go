package gradio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/httpclient/rest"
	"github.com/kbukum/vlmscribe/logger"
)

const (
	uploadPath = "gradio_api/upload"
	callPath   = "gradio_api/call"

	fileDataType = "gradio.FileData"
)

// Stream event names sent by the call protocol.
const (
	EventGenerating = "generating"
	EventComplete   = "complete"
	EventError      = "error"
	EventHeartbeat  = "heartbeat"
)

var (
	// ErrNoResult is returned when a stream ends without a complete event.
	ErrNoResult = errors.New("gradio: stream ended without a result")
	// ErrEmptyUpload is returned when the upload endpoint returns no path.
	ErrEmptyUpload = errors.New("gradio: upload returned no file")
)

// AppError is an error reported by the Gradio app itself.
type AppError struct {
	API     string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gradio: %s failed", e.API)
	}
	return fmt.Sprintf("gradio: %s failed: %s", e.API, e.Message)
}

// FileRef references a file already uploaded to the app. It is passed as a
// Predict argument wherever the endpoint expects a file.
type FileRef struct {
	Path     string   `json:"path"`
	OrigName string   `json:"orig_name,omitempty"`
	Meta     fileMeta `json:"meta"`
}

type fileMeta struct {
	Type string `json:"_type"`
}

// Client talks to one Gradio app.
type Client struct {
	rest *rest.Client
	cfg  Config
	log  *logger.Logger
}

// New creates a client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if cfg.Token != "" {
		hc.Auth = httpclient.BearerAuth(cfg.Token)
	}
	c, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("gradio: create http client: %w", err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Client{
		rest: rest.NewFromClient(c),
		cfg:  cfg,
		log:  log.WithComponent("gradio"),
	}, nil
}

// BaseURL returns the app URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Upload sends one file to the app and returns a reference to it.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (FileRef, error) {
	resp, err := c.rest.HTTP().Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   uploadPath,
		Body: &httpclient.MultipartBody{
			Files: []httpclient.FileField{{
				FieldName:   "files",
				FileName:    name,
				ContentType: http.DetectContentType(data),
				Data:        data,
			}},
		},
	})
	if err != nil {
		return FileRef{}, fmt.Errorf("gradio: upload %s: %w", name, err)
	}

	var paths []string
	if err := json.Unmarshal(resp.Body, &paths); err != nil {
		return FileRef{}, fmt.Errorf("gradio: decode upload response: %w", err)
	}
	if len(paths) == 0 || paths[0] == "" {
		return FileRef{}, ErrEmptyUpload
	}
	c.log.Debug("File uploaded", map[string]interface{}{
		"file": name,
		"path": paths[0],
		"size": len(data),
	})
	return FileRef{Path: paths[0], OrigName: name, Meta: fileMeta{Type: fileDataType}}, nil
}

type callRequest struct {
	Data []any `json:"data"`
}

type callResponse struct {
	EventID string `json:"event_id"`
}

// Predict runs the named endpoint (e.g. "/run_example") with positional
// arguments and returns the raw output array of the complete event.
func (c *Client) Predict(ctx context.Context, api string, data ...any) (json.RawMessage, error) {
	name := strings.TrimPrefix(api, "/")
	if name == "" {
		return nil, fmt.Errorf("gradio: api name is required")
	}
	if data == nil {
		data = []any{}
	}

	submitted, err := rest.Post[callResponse](ctx, c.rest, callPath+"/"+name, callRequest{Data: data})
	if err != nil {
		return nil, fmt.Errorf("gradio: submit %s: %w", api, err)
	}
	eventID := submitted.Data.EventID
	if eventID == "" {
		return nil, fmt.Errorf("gradio: submit %s: response has no event_id", api)
	}

	stream, err := c.rest.HTTP().DoStream(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    callPath + "/" + name + "/" + eventID,
		Headers: map[string]string{"Accept": "text/event-stream"},
	})
	if err != nil {
		return nil, fmt.Errorf("gradio: open %s stream: %w", api, err)
	}
	defer func() { _ = stream.Close() }()
	if stream.SSE == nil {
		return nil, fmt.Errorf("gradio: %s stream has content type %q", api, stream.Headers["Content-Type"])
	}

	for {
		event, err := stream.SSE.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoResult
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("gradio: read %s stream: %w", api, err)
		}

		switch event.Event {
		case EventComplete:
			c.log.Debug("Prediction complete", map[string]interface{}{
				"api":      api,
				"event_id": eventID,
			})
			return json.RawMessage(event.Data), nil
		case EventError:
			return nil, &AppError{API: api, Message: errorMessage(event.Data)}
		}
	}
}

// errorMessage extracts a readable message from an error event payload,
// which is either null, a JSON string or an arbitrary document.
func errorMessage(data string) string {
	data = strings.TrimSpace(data)
	if data == "" || data == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(data), &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(data), &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	return data
}
