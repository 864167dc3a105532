package domain

// BuildingType is the closed set of placeable structures. Unknown values
// are rejected at the boundary.
type BuildingType string

const (
	BuildingGreenhouse BuildingType = "greenhouse"
	BuildingDispensary BuildingType = "dispensary"
	BuildingLaboratory BuildingType = "laboratory"
	BuildingWarehouse  BuildingType = "warehouse"
)

// String returns the string representation of the building type.
func (t BuildingType) String() string { return string(t) }

// Valid reports whether t is a known catalog entry.
func (t BuildingType) Valid() bool {
	_, ok := catalog[t]
	return ok
}

// BuildingSpec is the constant record attached to each catalog entry.
// Name, Symbol and Color are presentation metadata returned to clients;
// they are never persisted.
type BuildingSpec struct {
	Type       BuildingType
	Name       string
	BaseCost   int64
	BaseIncome int64 // per second
	Symbol     string
	Color      string
}

var catalog = map[BuildingType]BuildingSpec{
	BuildingGreenhouse: {BuildingGreenhouse, "Greenhouse", 400, 25, "G", "#4caf50"},
	BuildingDispensary: {BuildingDispensary, "Dispensary", 1500, 110, "D", "#2196f3"},
	BuildingLaboratory: {BuildingLaboratory, "Laboratory", 3000, 230, "L", "#9c27b0"},
	BuildingWarehouse:  {BuildingWarehouse, "Warehouse", 5000, 400, "W", "#ff9800"},
}

// SpecFor returns the catalog record for a building type.
// The second result is false for unknown types.
func SpecFor(t BuildingType) (BuildingSpec, bool) {
	spec, ok := catalog[t]
	return spec, ok
}

// AllBuildingTypes returns every catalog entry in a stable order.
func AllBuildingTypes() []BuildingSpec {
	return []BuildingSpec{
		catalog[BuildingGreenhouse],
		catalog[BuildingDispensary],
		catalog[BuildingLaboratory],
		catalog[BuildingWarehouse],
	}
}
