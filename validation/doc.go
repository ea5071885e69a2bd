// Package validation validates request and config structs with struct tags.
//
//	type transcribeRequest struct {
//	    ImagePath string `json:"image_path" validate:"required"`
//	}
//	if err := validation.Validate(req); err != nil { ... }
//
// Besides the stock go-playground tags it understands "timestamp", which
// accepts a history record key: 14 digits, optionally followed by a
// three-digit collision suffix.
package validation
