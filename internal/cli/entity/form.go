package entity

// Field identifies one input of a mode-specific form.
type Field string

const (
	FieldFile          Field = "file"
	FieldMarketAuthor  Field = "market-author"
	FieldMarketName    Field = "market-name"
	FieldMarketVersion Field = "market-version"
	FieldGithubRepo    Field = "github-repo"
	FieldGithubRelease Field = "github-release"
	FieldGithubAsset   Field = "github-asset"
)

// FieldAnnotation is the validation decoration attached to a field.
type FieldAnnotation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// UploadedFile is the local selection plus the server-assigned path once the
// upload succeeded.
type UploadedFile struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ServerPath string `json:"serverPath,omitempty"`
}

type MarketFields struct {
	Author  string `json:"author"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type GithubFields struct {
	Repository string `json:"repository"`
	Release    string `json:"release"`
	Asset      string `json:"asset"`
}

// Panel is the result panel currently shown. Only one is visible at a time.
type Panel string

const (
	PanelNone    Panel = ""
	PanelSuccess Panel = "success"
	PanelError   Panel = "error"
)

// ResultPanel holds what the result section displays.
type ResultPanel struct {
	Visible Panel    `json:"visible"`
	Message string   `json:"message,omitempty"`
	Details string   `json:"details,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// ProgressState is the progress section: stage text, illustrative percentage
// and the timestamped log.
type ProgressState struct {
	Visible bool     `json:"visible"`
	Stage   string   `json:"stage"`
	Percent int      `json:"percent"`
	Log     []string `json:"log,omitempty"`
}

// FormState is the whole client state. It is passed explicitly to every
// usecase and view function.
type FormState struct {
	Mode           Mode                      `json:"mode"`
	Execution      Execution                 `json:"execution"`
	Upload         *UploadedFile             `json:"upload,omitempty"`
	Market         MarketFields              `json:"market"`
	Github         GithubFields              `json:"github"`
	Annotations    map[Field]FieldAnnotation `json:"annotations,omitempty"`
	DownloadTarget string                    `json:"downloadTarget,omitempty"`
	SubmitDisabled bool                      `json:"submitDisabled"`
	DisabledModes  map[Mode]bool             `json:"disabledModes,omitempty"`
	Result         ResultPanel               `json:"result"`
	Progress       ProgressState             `json:"progress"`
}

// NewFormState returns the initial state before capabilities are known.
func NewFormState() *FormState {
	return &FormState{
		Mode:          DefaultMode,
		Execution:     DefaultExecution,
		Annotations:   map[Field]FieldAnnotation{},
		DisabledModes: map[Mode]bool{},
	}
}

// UploadedPath returns the server path of the uploaded file, or "".
func (s *FormState) UploadedPath() string {
	if s.Upload == nil {
		return ""
	}
	return s.Upload.ServerPath
}
