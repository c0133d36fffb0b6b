package model

// CopyFile is an extra file copied into the image build context.
type CopyFile struct {
	Source string
	Target string
}

// ImageSpec carries the container image settings shared by the Deployment,
// Job and Knative Service annotations.
type ImageSpec struct {
	Image           string
	BaseImage       string
	Registry        string
	ImagePullPolicy string
	BuildImage      bool
	Push            bool
	Username        string
	Password        string
	DockerHost      string
	DockerCertPath  string
	Cmd             string
	CopyFiles       []CopyFile
	ImagePullSecret []string
}

// Image is the container image descriptor handed to the image-build
// collaborator.
type Image struct {
	// Name is the fully qualified image reference, registry prefix included.
	Name           string
	BaseImage      string
	Ports          []int
	Cmd            string
	CommandArgs    string
	CopyFiles      []CopyFile
	ArtifactPath   string
	Build          bool
	Push           bool
	Username       string
	Password       string
	DockerHost     string
	DockerCertPath string
}
