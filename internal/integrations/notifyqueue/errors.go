package notifyqueue

import "errors"

var (
	// ErrNotConnected возвращается, когда соединение с брокером не установлено
	ErrNotConnected = errors.New("notifyqueue client: not connected to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifyqueue client: failed to publish event")
)
