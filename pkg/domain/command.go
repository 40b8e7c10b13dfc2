package domain

import "fmt"

// CommandLook is the only argument-free command.
const CommandLook = "look"

// GoTo renders "go to <receptacle>".
func GoTo(recep string) string { return "go to " + recep }

// Open renders "open <receptacle>".
func Open(recep string) string { return "open " + recep }

// Close renders "close <receptacle>".
func Close(recep string) string { return "close " + recep }

// Take renders "take <object> from <receptacle>".
func Take(obj, recep string) string { return fmt.Sprintf("take %s from %s", obj, recep) }

// Put renders "put <object> in/on <receptacle>".
func Put(obj, recep string) string { return fmt.Sprintf("put %s in/on %s", obj, recep) }

// Apply renders "<verb> <object> with <receptacle>" for heat, cool and clean.
func Apply(verb Verb, obj, recep string) string {
	return fmt.Sprintf("%s %s with %s", verb, obj, recep)
}

// Slice renders "slice <object> with <tool>".
func Slice(obj, tool string) string { return fmt.Sprintf("slice %s with %s", obj, tool) }

// Use renders "use <object>".
func Use(obj string) string { return "use " + obj }
