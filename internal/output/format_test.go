package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter(t *testing.T) {
	en := NewPrinter("en")
	assert.Equal(t, "12,345", en.Count(12345))
	assert.Equal(t, "71.4", en.Value(71.43))
	assert.Equal(t, "1,500", en.Value(1500))

	de := NewPrinter("de")
	assert.Equal(t, "12.345", de.Count(12345))
	assert.Equal(t, "71,4", de.Value(71.43))

	assert.Equal(t, "7", NewPrinter("not a tag!").Count(7))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "you: hi", Message("you", "hi", true))
	assert.Equal(t, "bot: one\n     two", Message("bot", "one\ntwo\n", false))
}
