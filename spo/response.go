package spo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// objectTypeTag marks the server type of each object in a ProcessQuery
// response. It is stripped before a result is shown to the user.
const objectTypeTag = "_ObjectType_"

// ErrorInfo is the error object SharePoint embeds in the first element of a
// ProcessQuery response.
type ErrorInfo struct {
	ErrorMessage  string `json:"ErrorMessage"`
	ErrorTypeName string `json:"ErrorTypeName"`
	ErrorValue    string `json:"ErrorValue"`
	ErrorCode     int    `json:"ErrorCode"`
	TraceID       string `json:"TraceCorrelationId"`
}

// APIError is a remote failure reported by SharePoint.
type APIError struct {
	Info ErrorInfo
}

func (e *APIError) Error() string {
	message := strings.TrimSpace(e.Info.ErrorMessage)
	if message == "" {
		message = "unknown SharePoint error"
	}
	parts := []string{message}
	if e.Info.ErrorTypeName != "" {
		parts = append(parts, e.Info.ErrorTypeName)
	}
	if e.Info.TraceID != "" {
		parts = append(parts, "trace "+e.Info.TraceID)
	}
	return strings.Join(parts, ", ")
}

type responseHeader struct {
	SchemaVersion      string     `json:"SchemaVersion"`
	LibraryVersion     string     `json:"LibraryVersion"`
	ErrorInfo          *ErrorInfo `json:"ErrorInfo"`
	TraceCorrelationID string     `json:"TraceCorrelationId"`
}

// parseProcessQueryResponse decodes the JSON-array body of a ProcessQuery
// call. The first element is the response header; a non-null ErrorInfo there
// turns into an *APIError. The remaining elements are returned raw for the
// caller to pick its result from.
func parseProcessQueryResponse(body []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode ProcessQuery response: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("empty ProcessQuery response")
	}

	var header responseHeader
	if err := json.Unmarshal(items[0], &header); err != nil {
		return nil, fmt.Errorf("decode ProcessQuery response header: %w", err)
	}
	if header.ErrorInfo != nil {
		info := *header.ErrorInfo
		if info.TraceID == "" {
			info.TraceID = header.TraceCorrelationID
		}
		return nil, &APIError{Info: info}
	}

	return items[1:], nil
}

// lastObject returns the trailing element of a ProcessQuery response, the
// object the query or mutation produced.
func lastObject(items []json.RawMessage) (json.RawMessage, error) {
	if len(items) == 0 {
		return nil, errors.New("ProcessQuery response carried no result object")
	}
	return items[len(items)-1], nil
}

// decodeLast unmarshals the trailing response element into out.
func decodeLast(items []json.RawMessage, out any) error {
	raw, err := lastObject(items)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode ProcessQuery result: %w", err)
	}
	return nil
}

// StripTypeTag decodes a raw result object into a generic map with the
// _ObjectType_ tag removed, ready for printing.
func StripTypeTag(raw json.RawMessage) (map[string]any, error) {
	var object map[string]any
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, fmt.Errorf("decode result object: %w", err)
	}
	delete(object, objectTypeTag)
	return object, nil
}
