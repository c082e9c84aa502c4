package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitAndListRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	assert.Equal(t, 1, initAndList())
}
