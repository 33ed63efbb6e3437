package esri2wkt

import "fmt"

// ConfigurationError is returned when the run cannot start: a missing key
// field, an unknown input format, an unwritable output path and the like.
// No engine work happens once one of these is raised.
type ConfigurationError struct {
	Msg string
	Err error
}

func configErrorf(err error, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Msg: fmt.Sprintf(format, args...),
		Err: err,
	}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Configuration error: %s: %s", e.Msg, e.Err)
	}
	return fmt.Sprintf("Configuration error: %s", e.Msg)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// EngineError wraps a failure reported by the geometry engine or its
// scratch workspace. These are never retried.
type EngineError struct {
	Op  string
	Err error
}

func engineError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*EngineError); ok {
		return err
	}
	return &EngineError{Op: op, Err: err}
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("Engine error in %s: %s", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// KeyCollisionError is returned when two single part features carry the
// same nominal key.
type KeyCollisionError struct {
	Key string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("Duplicate key: %q", e.Key)
}
