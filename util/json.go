package util

import (
	"encoding/json"
)

// JsonString generate json string for an object
func JsonString(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LogString json form of v for log lines, falls back to an error marker
func LogString(v interface{}) string {
	s, err := JsonString(v)
	if err != nil {
		return "<unprintable: " + err.Error() + ">"
	}
	return s
}
