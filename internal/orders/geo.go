package orders

// stateInfo carries the display name and map centroid of a Brazilian state.
type stateInfo struct {
	Name string
	Lat  float64
	Lon  float64
}

var brazilStates = map[string]stateInfo{
	"AC": {Name: "Acre", Lat: -9.0238, Lon: -70.8120},
	"AL": {Name: "Alagoas", Lat: -9.5713, Lon: -36.7819},
	"AP": {Name: "Amapá", Lat: 0.9020, Lon: -51.8544},
	"AM": {Name: "Amazonas", Lat: -3.4168, Lon: -65.8561},
	"BA": {Name: "Bahia", Lat: -12.5797, Lon: -41.7007},
	"CE": {Name: "Ceará", Lat: -5.4984, Lon: -39.3206},
	"DF": {Name: "Distrito Federal", Lat: -15.7801, Lon: -47.9292},
	"ES": {Name: "Espírito Santo", Lat: -19.1834, Lon: -40.3089},
	"GO": {Name: "Goiás", Lat: -15.8270, Lon: -49.8362},
	"MA": {Name: "Maranhão", Lat: -5.4026, Lon: -45.1116},
	"MT": {Name: "Mato Grosso", Lat: -12.6819, Lon: -56.9211},
	"MS": {Name: "Mato Grosso do Sul", Lat: -20.7722, Lon: -54.7852},
	"MG": {Name: "Minas Gerais", Lat: -18.5122, Lon: -44.5550},
	"PA": {Name: "Pará", Lat: -3.4168, Lon: -52.0030},
	"PB": {Name: "Paraíba", Lat: -7.2400, Lon: -36.7820},
	"PR": {Name: "Paraná", Lat: -24.7953, Lon: -51.7955},
	"PE": {Name: "Pernambuco", Lat: -8.8137, Lon: -36.9541},
	"PI": {Name: "Piauí", Lat: -6.6000, Lon: -42.2800},
	"RJ": {Name: "Rio de Janeiro", Lat: -22.9068, Lon: -43.1729},
	"RN": {Name: "Rio Grande do Norte", Lat: -5.7945, Lon: -36.5172},
	"RS": {Name: "Rio Grande do Sul", Lat: -30.0346, Lon: -51.2177},
	"RO": {Name: "Rondônia", Lat: -11.5057, Lon: -63.5806},
	"RR": {Name: "Roraima", Lat: 2.7376, Lon: -62.0751},
	"SC": {Name: "Santa Catarina", Lat: -27.5954, Lon: -48.5480},
	"SP": {Name: "São Paulo", Lat: -23.5505, Lon: -46.6333},
	"SE": {Name: "Sergipe", Lat: -10.5741, Lon: -37.3857},
	"TO": {Name: "Tocantins", Lat: -10.1753, Lon: -48.2982},
}

// stateName resolves a state code to its display name, falling back to the
// code itself for anything outside the 27 known states.
func stateName(code string) string {
	if s, ok := brazilStates[code]; ok {
		return s.Name
	}
	return code
}
