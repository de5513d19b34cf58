// Package integration provides the embedded git alias snippet.
package integration

import (
	"bytes"
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
)

// GitAlias contains the shell snippet registering gitdu as a git alias.
//
//go:embed git-alias.sh
var GitAlias string

// Render renders the snippet with the path of the gitdu binary.
func Render() (string, error) {
	// Prefer the binary on PATH, fall back to the running executable
	bin, err := exec.LookPath("gitdu")
	if err != nil {
		bin, err = os.Executable()
		if err != nil {
			return "", err
		}
	}

	return render(filepath.ToSlash(bin))
}

func render(bin string) (string, error) {
	tmpl, err := template.New("git-alias").Parse(GitAlias)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"GITDU": bin,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
