package mongodb

import "time"

type Option func(*MongoDB)

func ConnAttempts(attempts int) Option {
	return func(m *MongoDB) {
		m.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(m *MongoDB) {
		m.connTimeout = timeout
	}
}
