package model

// Job is the run-to-completion workload record, mutually exclusive with
// Deployment within a unit.
type Job struct {
	Meta
	ImageSpec

	Namespace             string
	RestartPolicy         string
	BackoffLimit          int
	ActiveDeadlineSeconds int
	NodeSelector          map[string]string
	Env                   Env
	SingleYAML            bool

	// Schedule, when set, routes generation to a CronJob.
	Schedule string
}

// NewJob returns a Job with defaults applied.
func NewJob(name string) *Job {
	return &Job{
		Meta:                  Meta{Name: name},
		ImageSpec:             ImageSpec{ImagePullPolicy: PullIfNotPresent},
		RestartPolicy:         RestartNever,
		BackoffLimit:          3,
		ActiveDeadlineSeconds: 20,
		Env:                   Env{},
	}
}

// IsCron reports whether the job is scheduled.
func (j *Job) IsCron() bool {
	return j.Schedule != ""
}
