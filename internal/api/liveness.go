package api

import (
	"sync/atomic"
	"time"
)

// Liveness - общий флаг готовности бота для HTTP и gRPC проверок
type Liveness struct {
	ready     atomic.Bool
	lastTouch atomic.Int64
}

func NewLiveness() *Liveness {
	return &Liveness{}
}

// SetReady выставляется циклом бота при старте и снимается при остановке
func (l *Liveness) SetReady(ready bool) {
	l.ready.Store(ready)
}

func (l *Liveness) Ready() bool {
	return l.ready.Load()
}

// Touch отмечает время последнего обработанного обновления
func (l *Liveness) Touch() {
	l.lastTouch.Store(time.Now().UnixNano())
}

// LastActivity возвращает нулевое время, если обновлений еще не было
func (l *Liveness) LastActivity() time.Time {
	n := l.lastTouch.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
