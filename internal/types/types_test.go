package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormFields_MatchWidget(t *testing.T) {
	// the hCaptcha widget posts its token under this name
	assert.Equal(t, "h-captcha-response", FormFieldHCaptcha)
	assert.Equal(t, "application/x-www-form-urlencoded", ContentTypeForm)
}
