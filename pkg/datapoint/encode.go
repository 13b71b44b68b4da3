package datapoint

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cyclopcam/rblabel/pkg/config"
	"github.com/fxamacker/cbor/v2"
)

// Encode writes results as indented JSON, or as CBOR
func Encode(w io.Writer, results []*Result, format string) error {
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case config.FormatCBOR:
		b, err := cbor.Marshal(results)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("Unknown output format '%v'", format)
}

// Decode reads results written by Encode. Masks are not part of the encoding.
func Decode(r io.Reader, format string) ([]*Result, error) {
	results := []*Result{}
	switch format {
	case config.FormatJSON:
		err := json.NewDecoder(r).Decode(&results)
		return results, err
	case config.FormatCBOR:
		err := cbor.NewDecoder(r).Decode(&results)
		return results, err
	}
	return nil, fmt.Errorf("Unknown output format '%v'", format)
}
