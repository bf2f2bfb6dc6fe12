package pvgis

const (
	DefaultBaseURL = "https://re.jrc.ec.europa.eu"
	DefaultLoss    = 14.0 // System loss in percent

	// Orientation used for the production of a reference 1 kWp system.
	baseAngle  = 35.0
	baseAspect = 0.0
)

type pvcalc struct {
	Outputs outputs `json:"outputs"`
}

type outputs struct {
	Monthly monthly `json:"monthly"`
}

type monthly struct {
	Fixed []monthEntry `json:"fixed"`
}

type monthEntry struct {
	Month int     `json:"month"`
	Ed    float64 `json:"E_d"` // Average daily production (kWh)
	Em    float64 `json:"E_m"` // Average monthly production (kWh)
	SDm   float64 `json:"SD_m"`
}

type apiError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
