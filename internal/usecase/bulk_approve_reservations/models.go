package bulk_approve_reservations

import "github.com/m04kA/LRS-BookingService/internal/domain"

// Request модель запроса на массовое подтверждение бронирований
// Порядок идентификаторов задает порядок обработки
type Request struct {
	Actor          domain.Actor
	ReservationIDs []int64
}

// ItemOutcome причина, по которой элемент не был подтвержден
type ItemOutcome string

const (
	OutcomeApproved   ItemOutcome = "approved"
	OutcomeConflicted ItemOutcome = "conflicted"
	OutcomeNotFound   ItemOutcome = "not_found"
	OutcomeNotPending ItemOutcome = "not_pending"
	OutcomeFailed     ItemOutcome = "failed"
)

// ItemResult результат обработки одного бронирования
type ItemResult struct {
	ReservationID int64
	Outcome       ItemOutcome
	// ConflictingIDs идентификаторы approved бронирований, помешавших
	// подтверждению; заполняется только при Outcome == conflicted
	ConflictingIDs []int64
}

// Response модель ответа массового подтверждения
// Skipped покрывает все неподтвержденные элементы; Conflicted выделяет
// из них проигравших проверку пересечений
type Response struct {
	Total      int
	Approved   int
	Conflicted int
	Skipped    int
	Results    []ItemResult
}
