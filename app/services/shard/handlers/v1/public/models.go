package public

// submitResult is the response to a successful transaction submission.
type submitResult struct {
	Status string `json:"status"`
	TxID   string `json:"tx_id"`
	Origin int    `json:"origin"`
	Dest   int    `json:"dest"`
}
