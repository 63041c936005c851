package ticket

// DeleteTicketRequest is one entry of the delete body, [{"ticketId": "..."}].
type DeleteTicketRequest struct {
	TicketID string `json:"ticketId" binding:"required"`
}

type DeleteTicketsResponse struct {
	Deleted int `json:"deleted"`
}

func ticketIDs(reqs []DeleteTicketRequest) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.TicketID)
	}
	return ids
}
