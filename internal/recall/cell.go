package recall

type CellDisplayState string

const (
	DisplayDefault  CellDisplayState = "default"
	DisplayFlash    CellDisplayState = "flash"
	DisplayCorrect  CellDisplayState = "correct"
	DisplayWrong    CellDisplayState = "wrong"
	DisplaySelected CellDisplayState = "selected"
)

type Status string

const (
	StatusInitial   Status = "initial"
	StatusResetting Status = "resetting"
	StatusFlashing  Status = "flashing"
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLoss      Status = "loss"
	StatusSurrender Status = "surrender"
)

func (s Status) Over() bool {
	return s == StatusWon || s == StatusLoss || s == StatusSurrender
}

// Cell is what a player is allowed to see of one board cell.
type Cell struct {
	Number   *int             `json:"number"`
	State    CellDisplayState `json:"state"`
	Selected bool             `json:"selected"`
}
