package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", SanitizeInput("<b>bold</b>"))
	assert.NotContains(t, SanitizeInput("<script>alert(1)</script>ok"), "<script>")
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Student@Res.Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "student@res.example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("082 123 4567")
	assert.NoError(t, err)
	assert.Equal(t, "+0821234567", phone)

	phone, err = SanitizePhone("+27 82 123 4567")
	assert.NoError(t, err)
	assert.Equal(t, "+27821234567", phone)

	empty, err := SanitizePhone("   ")
	assert.NoError(t, err)
	assert.Equal(t, "", empty)

	_, err = SanitizePhone("123")
	assert.Error(t, err)
}
