package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{nil, "up", false},
		{[]string{"up"}, "up", false},
		{[]string{"down"}, "down", false},
		{[]string{"status"}, "status", false},
		{[]string{"redo"}, "", true},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.args)
		if tt.wantErr {
			assert.Error(t, err, tt.args)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRun_ComandoDesconocidoDevuelveError(t *testing.T) {
	err := run(context.Background(), config.DBConfig{}, []string{"reset"}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset")
}
