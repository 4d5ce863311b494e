package inventory

import (
	"sort"
	"strings"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// CompareFEFO ordena lotes First-Expire-First-Out:
// vencimiento ascendente (sin vencimiento al final), luego fecha de entrada ascendente
// y por último ID ascendente para que lotes con claves iguales tengan un orden determinista.
func CompareFEFO(a, b *entity.Lot) int {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return 1
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return -1
	case a.ExpiryDate != nil && b.ExpiryDate != nil:
		if a.ExpiryDate.Before(*b.ExpiryDate) {
			return -1
		}
		if a.ExpiryDate.After(*b.ExpiryDate) {
			return 1
		}
	}
	if a.EntryDate.Before(b.EntryDate) {
		return -1
	}
	if a.EntryDate.After(b.EntryDate) {
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// SortFEFO ordena in place según CompareFEFO.
func SortFEFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return CompareFEFO(lots[i], lots[j]) < 0
	})
}
