package domain

// Materiel is one equipment type tracked by the inventory, with a unit
// counter rather than per-unit records. AvailableUnits is only ever
// mutated through the repository's ReserveUnit/ReleaseUnit operations.
type Materiel struct {
	ID                int32             `json:"id"`
	Name              string            `json:"name"`
	MaterielType      string            `json:"materiel_type"`
	AvailableUnits    int32             `json:"available_units"`
	LowStockThreshold int32             `json:"low_stock_threshold"`
	Specs             map[string]string `json:"specs,omitempty"`
	CreatedOn         string            `json:"created_on"`
	UpdatedOn         string            `json:"updated_on"`
}

// MaterielStats summarizes the inventory for the dashboard endpoints.
type MaterielStats struct {
	TotalMateriels int32 `json:"total_materiels"`
	TotalUnits     int32 `json:"total_units"`
	LowStockCount  int32 `json:"low_stock_count"`
}

// LowStock reports whether the item is at or below its configured
// low-stock threshold.
func (m *Materiel) LowStock() bool {
	return m.AvailableUnits <= m.LowStockThreshold
}
