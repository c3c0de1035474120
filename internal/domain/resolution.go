package domain

// Resolution selects the Copernicus DEM dataset granularity. It doubles
// as the cache sub-namespace on disk.
type Resolution string

const (
	ResolutionGLO30 Resolution = "GLO-30"
	ResolutionGLO90 Resolution = "GLO-90"
)

func (r Resolution) Valid() bool {
	return r == ResolutionGLO30 || r == ResolutionGLO90
}

// DatasetType maps the resolution to the provider's demtype parameter.
func (r Resolution) DatasetType() string {
	if r == ResolutionGLO90 {
		return "COP90"
	}
	return "COP30"
}
