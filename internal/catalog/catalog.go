package catalog

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Station is one entry in the ordered station catalog.
type Station struct {
	Name     string
	Position Coordinate
}

// Catalog is the ordered station table shared by fare computation and the
// geofence check. It is loaded once at process start and read-only afterwards,
// so it is safe for concurrent use.
type Catalog struct {
	version  string
	stations []Station
	index    map[string]int
}

// New builds a catalog from an ordered station list.
func New(version string, stations []Station) *Catalog {
	idx := make(map[string]int, len(stations))
	for i, s := range stations {
		idx[s.Name] = i
	}
	return &Catalog{version: version, stations: stations, index: idx}
}

// Version identifies the catalog revision in use.
func (c *Catalog) Version() string {
	return c.version
}

// Index returns the position of a station in the ordered catalog.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Coordinates returns the geo-coordinates of a station.
func (c *Catalog) Coordinates(name string) (Coordinate, bool) {
	i, ok := c.index[name]
	if !ok {
		return Coordinate{}, false
	}
	return c.stations[i].Position, true
}

// Stations returns the ordered station list.
func (c *Catalog) Stations() []Station {
	out := make([]Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// Default returns the Mumbai suburban catalog: Western, Central and Harbour
// line stations in timetable order. Fare distance is the index gap in this
// list, so the order matters as much as the names.
func Default() *Catalog {
	return New("mumbai-suburban-v1", []Station{
		// Western Line
		{Name: "Churchgate", Position: Coordinate{Lat: 18.9353, Lng: 72.8277}},
		{Name: "Marine Lines", Position: Coordinate{Lat: 18.9433, Lng: 72.8236}},
		{Name: "Charni Road", Position: Coordinate{Lat: 18.9519, Lng: 72.8192}},
		{Name: "Grant Road", Position: Coordinate{Lat: 18.9629, Lng: 72.8156}},
		{Name: "Mumbai Central", Position: Coordinate{Lat: 18.9693, Lng: 72.8193}},
		{Name: "Dadar", Position: Coordinate{Lat: 19.0186, Lng: 72.8446}},
		{Name: "Bandra", Position: Coordinate{Lat: 19.0544, Lng: 72.8402}},
		{Name: "Andheri", Position: Coordinate{Lat: 19.1197, Lng: 72.8464}},
		{Name: "Borivali", Position: Coordinate{Lat: 19.2307, Lng: 72.8567}},
		{Name: "Virar", Position: Coordinate{Lat: 19.4559, Lng: 72.8112}},
		// Central Line
		{Name: "CSMT", Position: Coordinate{Lat: 18.9398, Lng: 72.8355}},
		{Name: "Byculla", Position: Coordinate{Lat: 18.9793, Lng: 72.8334}},
		{Name: "Kurla", Position: Coordinate{Lat: 19.0653, Lng: 72.8790}},
		{Name: "Ghatkopar", Position: Coordinate{Lat: 19.0858, Lng: 72.9089}},
		{Name: "Thane", Position: Coordinate{Lat: 19.1860, Lng: 72.9753}},
		{Name: "Dombivli", Position: Coordinate{Lat: 19.2183, Lng: 73.0864}},
		{Name: "Kalyan", Position: Coordinate{Lat: 19.2349, Lng: 73.1299}},
		// Harbour Line
		{Name: "Wadala Road", Position: Coordinate{Lat: 19.0178, Lng: 72.8478}},
		{Name: "Chembur", Position: Coordinate{Lat: 19.0622, Lng: 72.8971}},
		{Name: "Vashi", Position: Coordinate{Lat: 19.0771, Lng: 72.9986}},
		{Name: "Nerul", Position: Coordinate{Lat: 19.0330, Lng: 73.0160}},
		{Name: "Panvel", Position: Coordinate{Lat: 18.9894, Lng: 73.1175}},
	})
}
