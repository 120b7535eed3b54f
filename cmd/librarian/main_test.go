package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefusalWording(t *testing.T) {
	assert.Equal(t, "Please use appropriate language.", refusal)
}
