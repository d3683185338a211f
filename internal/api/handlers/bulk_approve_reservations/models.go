package bulk_approve_reservations

import (
	bulkApprove "github.com/m04kA/LRS-BookingService/internal/usecase/bulk_approve_reservations"
)

// BulkApproveRequest HTTP request model
// Бронирования обрабатываются в порядке перечисления
type BulkApproveRequest struct {
	ReservationIDs []int64 `json:"reservationIds"`
}

// ItemResultResponse результат обработки одного бронирования
type ItemResultResponse struct {
	ReservationID  int64   `json:"reservationId"`
	Outcome        string  `json:"outcome"`
	ConflictingIDs []int64 `json:"conflictingIds,omitempty"`
}

// BulkApproveResponse HTTP response model
type BulkApproveResponse struct {
	Total      int                  `json:"total"`
	Approved   int                  `json:"approved"`
	Conflicted int                  `json:"conflicted"`
	Skipped    int                  `json:"skipped"`
	Results    []ItemResultResponse `json:"results"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(res *bulkApprove.Response) *BulkApproveResponse {
	resp := &BulkApproveResponse{
		Total:      res.Total,
		Approved:   res.Approved,
		Conflicted: res.Conflicted,
		Skipped:    res.Skipped,
		Results:    make([]ItemResultResponse, 0, len(res.Results)),
	}

	for _, item := range res.Results {
		resp.Results = append(resp.Results, ItemResultResponse{
			ReservationID:  item.ReservationID,
			Outcome:        string(item.Outcome),
			ConflictingIDs: item.ConflictingIDs,
		})
	}

	return resp
}
