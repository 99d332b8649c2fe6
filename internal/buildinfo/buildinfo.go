// Package buildinfo carries version identifiers stamped in via -ldflags.
package buildinfo

const Service = "fieldops-agenda"

var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	return map[string]string{
		"service": Service,
		"version": Version,
		"commit":  Commit,
		"builtAt": BuiltAt,
	}
}
