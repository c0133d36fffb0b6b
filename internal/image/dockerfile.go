package image

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/kubegen/cli/internal/model"
)

// DefaultBaseImage is used when neither the annotation nor the configuration
// names a base image.
const DefaultBaseImage = "debian:bookworm-slim"

// WorkDir is the working directory of the generated image.
const WorkDir = "/home/app"

// FilesDir is the build-context subdirectory holding copyFiles sources.
const FilesDir = "files"

// Dockerfile renders the build instructions for img. The artifact and every
// copy file are expected next to the Dockerfile, as laid out by the image
// handler.
func Dockerfile(img *model.Image) string {
	base := img.BaseImage
	if base == "" {
		base = DefaultBaseImage
	}

	var sb strings.Builder
	sb.WriteString("# Auto Generated Dockerfile\n")
	fmt.Fprintf(&sb, "FROM %s\n", base)
	sb.WriteString("LABEL maintainer=\"kubegen\"\n\n")

	sb.WriteString("RUN groupadd --system --gid 10001 app && useradd --system --uid 10001 --gid app --home " + WorkDir + " app\n")
	fmt.Fprintf(&sb, "WORKDIR %s\n\n", WorkDir)

	artifact := ""
	if img.ArtifactPath != "" {
		artifact = filepath.Base(img.ArtifactPath)
		fmt.Fprintf(&sb, "COPY %s %s/\n", artifact, WorkDir)
	}
	for _, f := range img.CopyFiles {
		fmt.Fprintf(&sb, "COPY %s %s\n", path.Join(FilesDir, filepath.Base(f.Source)), f.Target)
	}
	if len(img.Ports) > 0 {
		sb.WriteString("\n")
		for _, p := range img.Ports {
			fmt.Fprintf(&sb, "EXPOSE %d\n", p)
		}
	}

	sb.WriteString("\nUSER 10001\n\n")
	sb.WriteString(command(img, artifact))
	sb.WriteString("\n")
	return sb.String()
}

func command(img *model.Image, artifact string) string {
	args := strings.Fields(img.CommandArgs)
	if img.Cmd != "" {
		return "CMD " + strings.TrimSpace(img.Cmd+" "+strings.Join(args, " "))
	}
	if artifact == "" {
		return ""
	}
	exec := append([]string{path.Join(WorkDir, artifact)}, args...)
	encoded, _ := json.Marshal(exec)
	return "CMD " + string(encoded)
}
