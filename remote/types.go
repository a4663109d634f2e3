package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var null = []byte("null")

// Text is a string field the backend sometimes encodes as a number or a bool
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*t = Text(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid text value %s", data)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Number is a numeric field the backend sometimes encodes as a string
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Flag is a boolean field the backend encodes as a bool, a number or a string
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, null):
		*f = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "success":
			*f = true
		default:
			*f = false
		}
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid flag %s", data)
		}
		*f = v != 0
	}
	return nil
}

// StatusResponse is the envelope most write endpoints answer with
type StatusResponse struct {
	Status  Text   `json:"status"`
	Success Flag   `json:"success"`
	Message string `json:"message"`
}

func (s *StatusResponse) OK() bool {
	status := strings.ToLower(s.Status.String())
	return bool(s.Success) || status == "success" || status == "true"
}

// File is a multipart file part
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
