package i

// Logger is the leveled logger every service writes to.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}
