package geo

// Resolver resolves a destination name to its coordinates.
// Implementations return false for names outside their known set; an
// unresolved name is not an error, callers degrade to a neutral score.
type Resolver interface {
	Resolve(name string) (Coordinate, bool)
}

// nepalDestinations is the fixed coordinate table for major Nepal destinations.
// TODO: back this with the locations table once destination names are
// normalized against it.
var nepalDestinations = map[string]Coordinate{
	"Kathmandu": {Lat: 27.7172, Lng: 85.324},
	"Pokhara":   {Lat: 28.2096, Lng: 83.9856},
	"Chitwan":   {Lat: 27.5291, Lng: 84.3542},
	"Lumbini":   {Lat: 27.4833, Lng: 83.2764},
	"Nagarkot":  {Lat: 27.7172, Lng: 85.5201},
	"Bhaktapur": {Lat: 27.6728, Lng: 85.4298},
	"Patan":     {Lat: 27.6684, Lng: 85.3247},
}

// StaticResolver resolves destination names against a fixed in-memory table.
type StaticResolver struct {
	coords map[string]Coordinate
}

// NewStaticResolver creates a resolver seeded with the default destination table.
func NewStaticResolver() *StaticResolver {
	coords := make(map[string]Coordinate, len(nepalDestinations))
	for name, c := range nepalDestinations {
		coords[name] = c
	}
	return &StaticResolver{coords: coords}
}

// NewStaticResolverWith creates a resolver over the given table.
// The map is copied to keep the resolver immutable after construction.
func NewStaticResolverWith(coords map[string]Coordinate) *StaticResolver {
	copied := make(map[string]Coordinate, len(coords))
	for name, c := range coords {
		copied[name] = c
	}
	return &StaticResolver{coords: copied}
}

// Resolve returns the coordinates for a destination name.
// Lookup is exact-match; unknown names return false.
func (r *StaticResolver) Resolve(name string) (Coordinate, bool) {
	c, ok := r.coords[name]
	return c, ok
}
