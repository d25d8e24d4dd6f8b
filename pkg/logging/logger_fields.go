package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

// RunID tags every line of one CLI invocation
func RunID(id string) Field {
	return String("run_id", id)
}

func Arc(index int) Field {
	return Int("arc", index)
}

func Period(t int) Field {
	return Int("period", t)
}

func Commodity(k int) Field {
	return Int("commodity", k)
}

// Variable names a model column by its display name
func Variable(name string) Field {
	return String("variable", name)
}

// Row names a model constraint by its display name
func Row(name string) Field {
	return String("row", name)
}

func Phase(name string) Field {
	return String("phase", name)
}

func Objective(v float64) Field {
	return Float64("objective", v)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
