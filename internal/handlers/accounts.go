package handlers

import (
	"net/http"
	"strconv"
)

// bankInfo is one linked bank in the accounts response
type bankInfo struct {
	BankName  string `json:"bank_name"`
	AccessURL string `json:"access_url"`
}

// banksResponse is the body of GET /api/accounts
type banksResponse struct {
	Banks []bankInfo `json:"banks"`
}

// GetAccounts handles GET /api/accounts?user_id=<id>
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	links, err := h.links.Banks(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load banks", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	banks := make([]bankInfo, 0, len(links))
	for _, link := range links {
		banks = append(banks, bankInfo{
			BankName:  link.BankName,
			AccessURL: link.AccessURL,
		})
	}

	h.writeJSON(w, http.StatusOK, banksResponse{Banks: banks})
}
