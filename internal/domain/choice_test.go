package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tourgen/internal/domain"
)

func TestChosen_DropsEmptyAlternativesKeepingOrder(t *testing.T) {
	in := []domain.Choice{
		{OwnerID: 3, Alternative: "1"},
		{OwnerID: 1, Alternative: ""},
		{OwnerID: 2, Alternative: "0"},
	}

	got := domain.Chosen(in)

	assert.Equal(t, []domain.Choice{{OwnerID: 3, Alternative: "1"}, {OwnerID: 2, Alternative: "0"}}, got)
	assert.Len(t, in, 3, "input is not modified")
}

func TestChosen_Empty(t *testing.T) {
	assert.Empty(t, domain.Chosen(nil))
}
