// Package summary renders one-line summaries for collection and text shapes.
//
// Text is decoded one byte per character: every byte becomes the code point
// of the same value, so multi-byte UTF-8 sequences show up as their
// individual bytes. Summaries never fail; read errors are rendered inline as
// "<error: detail>".
package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rsinspect/internal/debug/provider"
	"github.com/dshills/rsinspect/internal/debug/value"
	"github.com/dshills/rsinspect/internal/logging"
)

// Size renders a vector summary as "size=N". Elements are never read.
func Size(v value.Value, log *logging.Logger) string {
	p := provider.NewVector(v, log)
	if err := p.Err(); err != nil {
		return errorText(err)
	}
	return "size=" + strconv.Itoa(p.NumChildren())
}

// Text renders an owned string by reading each element of its inner
// byte vector.
func Text(v value.Value, log *logging.Logger) string {
	log.Debug("[TextSummary] for %s", v.Name())

	vec := v.ChildAtIndex(0)
	if vec == nil {
		return errorText(fmt.Errorf("%s has no buffer", v.Name()))
	}
	p := provider.NewVector(vec, log)
	if err := p.Err(); err != nil {
		return errorText(err)
	}

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < p.NumChildren(); i++ {
		c, err := p.ChildAtIndex(i).Unsigned()
		if err != nil {
			return errorText(err)
		}
		b.WriteRune(rune(byte(c)))
	}
	b.WriteByte('"')
	return b.String()
}

// TextSlice renders a borrowed string slice with a single memory read of
// length bytes at its data pointer.
func TextSlice(v value.Value, log *logging.Logger) string {
	log.Debug("[TextSliceSummary] for %s", v.Name())

	lengthField := v.ChildByName("length")
	dataPtr := v.ChildByName("data_ptr")
	if lengthField == nil || dataPtr == nil {
		return errorText(fmt.Errorf("%s is missing length or data_ptr", v.Name()))
	}

	length, err := lengthField.Unsigned()
	if err != nil {
		return errorText(err)
	}
	start, err := dataPtr.Unsigned()
	if err != nil {
		return errorText(err)
	}

	data, err := dataPtr.Process().ReadMemory(start, length)
	if err != nil {
		log.Warn("text slice %s: %v", v.Name(), err)
		return errorText(err)
	}
	return quote(data)
}

func quote(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) + 2)
	b.WriteByte('"')
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	b.WriteByte('"')
	return b.String()
}

func errorText(err error) string {
	return "<error: " + err.Error() + ">"
}
