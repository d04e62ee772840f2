package server_test

import (
	"testing"

	"gamedb/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Limit(t *testing.T) {
	c := server.Config{PageSize: 50, MaxPageSize: 500}

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"Zero falls back to default", 0, 50},
		{"Negative falls back to default", -1, 50},
		{"Within bounds", 100, 100},
		{"Clamped to max", 10000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Limit(tt.requested))
		})
	}
}
