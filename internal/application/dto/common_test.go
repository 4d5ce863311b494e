package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_NormalizedAplicaLimitePorDefecto(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultPageLimit}, Page{}.Normalized())
	assert.Equal(t, Page{Limit: 10, Offset: 0}, Page{Limit: 10, Offset: -3}.Normalized())
	assert.Equal(t, Page{Limit: 7, Offset: 14}, Page{Limit: 7, Offset: 14}.Normalized())
}

func TestNewPageResponse_HasMore(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		returned int
		total    int
		want     bool
	}{
		{"primera página incompleta", Page{Limit: 2, Offset: 0}, 2, 3, true},
		{"última página", Page{Limit: 2, Offset: 2}, 1, 3, false},
		{"página exacta", Page{Limit: 3, Offset: 0}, 3, 3, false},
		{"desplazamiento fuera de rango", Page{Limit: 2, Offset: 10}, 0, 3, false},
		{"sin resultados", Page{Limit: 50}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageResponse(tt.page, tt.returned, tt.total)
			assert.Equal(t, tt.want, got.HasMore)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.page.Limit, got.Limit)
		})
	}
}
