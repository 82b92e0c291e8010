package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultMapName = "request"
	MaxMapBytes    = 1 << 20
)

type MapRequest struct {
	Name string `json:"name"`
	Map  string `json:"map"`
}

func (m *MapRequest) Bind(r *http.Request) error {
	if strings.TrimSpace(m.Map) == "" {
		return errors.New("missing required map")
	}
	if m.Name == "" {
		m.Name = defaultMapName
	}
	return nil
}

// ReadMapRequest accepts either a JSON object {"name": ..., "map": ...} or the raw map text.
// A raw map is named after the name query parameter. Bodies over MaxMapBytes are rejected
// with an *http.MaxBytesError.
func ReadMapRequest(w http.ResponseWriter, r *http.Request) (*MapRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxMapBytes)
	defer r.Body.Close()

	// Peek at the first non-whitespace byte
	reader := bufio.NewReader(r.Body)
	var first byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("empty request body")
			}
			return nil, fmt.Errorf("error reading first byte: %w", err)
		}
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			first = b
			break
		}
	}
	if err := reader.UnreadByte(); err != nil {
		return nil, fmt.Errorf("error unreading first byte: %w", err)
	}

	req := &MapRequest{}
	switch first {
	case '{':
		if err := json.NewDecoder(reader).Decode(req); err != nil {
			return nil, fmt.Errorf("error decoding map request: %w", err)
		}
	default:
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("error reading map: %w", err)
		}
		req.Name = r.URL.Query().Get("name")
		req.Map = string(data)
	}

	if err := req.Bind(r); err != nil {
		return nil, err
	}
	return req, nil
}
