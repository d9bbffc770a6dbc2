// ABOUTME: Experiment model, the root of the experiment/participant/measurement/datapoint hierarchy.
// ABOUTME: Defines DataState tags and the upload bookkeeping fields.
package models

// DataState distinguishes raw from cleaned versions of the same dataset.
type DataState string

const (
	DataStateRaw   DataState = "raw"
	DataStateClean DataState = "clean"
)

// IsValidDataState checks if s names a known data state.
func IsValidDataState(s string) bool {
	return s == string(DataStateRaw) || s == string(DataStateClean)
}

// Experiment is one dataset in one processing state.
// (Name, DataState) identifies a logical dataset.
type Experiment struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	DataState      DataState `json:"data_state"`
	DataFolder     *string   `json:"data_folder,omitempty"`
	UploadComplete *bool     `json:"upload_complete,omitempty"`
}

// NewExperiment creates an Experiment that has not been uploaded yet.
func NewExperiment(name string, state DataState) *Experiment {
	return &Experiment{Name: name, DataState: state}
}

// WithDataFolder records the folder the experiment was ingested from.
func (e *Experiment) WithDataFolder(folder string) *Experiment {
	e.DataFolder = &folder
	return e
}

// IsUploadComplete reports whether the upload flag has been set.
func (e *Experiment) IsUploadComplete() bool {
	return e.UploadComplete != nil && *e.UploadComplete
}
