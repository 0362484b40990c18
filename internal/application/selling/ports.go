package selling

type IDGenerator interface {
	NewID() string
}
