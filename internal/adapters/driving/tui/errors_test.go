package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingQueryService.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingQueryService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingQueryService.Error(), "query service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
