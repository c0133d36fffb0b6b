package output

import (
	"fmt"
	"io"
	"strings"
)

// Progress prints one line per completed artifact of a unit.
type Progress struct {
	w     io.Writer
	total int
	done  int
}

// NewProgress returns a Progress expecting total steps.
func NewProgress(w io.Writer, total int) *Progress {
	return &Progress{w: w, total: total}
}

// Complete records one finished step. label is the annotation-style name of
// the artifact, e.g. "kubernetes:Service".
func (p *Progress) Complete(label string) {
	p.done++
	fmt.Fprintf(p.w, "\t@%s \t\t\t - complete %d/%d\n", label, p.done, p.total)
}

// Done returns the number of completed steps.
func (p *Progress) Done() int {
	return p.done
}

// Instructions describes the commands an operator runs after generation.
type Instructions struct {
	// OutputDir holds the generated manifests.
	OutputDir string

	// ChartName and ChartDir are set when a Helm chart was packaged.
	ChartName string
	ChartDir  string

	// Image is the image tag; DockerDir is its build context. When the image
	// was not built, the docker build command is printed.
	Image      string
	DockerDir  string
	ImageBuilt bool
}

// String renders the instructions block.
func (in Instructions) String() string {
	var sb strings.Builder
	if in.Image != "" && !in.ImageBuilt {
		sb.WriteString("\n\tRun the following command to build the docker image:\n")
		fmt.Fprintf(&sb, "\tdocker build -t %s %s\n", in.Image, in.DockerDir)
	}
	sb.WriteString("\n\tRun the following command to deploy the Kubernetes artifacts:\n")
	fmt.Fprintf(&sb, "\tkubectl apply -f %s\n", in.OutputDir)
	if in.ChartDir != "" {
		sb.WriteString("\n\tRun the following command to install the application using Helm:\n")
		fmt.Fprintf(&sb, "\thelm install %s %s\n", in.ChartName, in.ChartDir)
	}
	return sb.String()
}
