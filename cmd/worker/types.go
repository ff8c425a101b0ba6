package main

// WorkerMessage is the payload sent from API -> SQS -> Worker.
type WorkerMessage struct {
	OrderRef string `json:"order_ref"`
	Identity string `json:"identity"`
}
