package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# ResumeScreen configuration
version: "1.0"

service:
  # Base address of the classification service. /predict, /health and
  # /categories are resolved relative to it.
  base_url: "http://localhost:5000/api"
  # Upper bound for one analysis request, including upload.
  timeout: 60s
  # Upper bound for the startup health probe.
  health_timeout: 5s
  user_agent: "resumescreen"

input:
  # Files larger than this are rejected before upload (0 disables the cap).
  max_file_bytes: 16777216

output:
  # text | json | markdown | csv
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  # default | high-contrast | minimal
  theme: "default"
  # Diagnostics from the interactive UI are written here when set.
  log_file: ""
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "http://localhost:5000/api"
output:
  default_format: "text"
`
}
