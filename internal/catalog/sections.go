package catalog

import (
	"errors"
	"slices"

	"github.com/PolarWolf314/envsync/internal/utils"
)

// Environment purposes offered by the first section.
const (
	PurposeProduction  = "production"
	PurposeStaging     = "staging"
	PurposeQA          = "qa"
	PurposeDevelopment = "development"
)

// EnvironmentTypeQuestion is the local-only question that steers later sections.
const EnvironmentTypeQuestion = "ENVIRONMENT_TYPE"

// DomainLabel is the base value most derived URLs are built from.
const DomainLabel = "DOMAIN"

func validateDomain(v string) error {
	if !utils.IsValidDomain(v) {
		return errors.New("enter a bare domain such as example.org (no scheme or path)")
	}
	return nil
}

func validateEmail(v string) error {
	if !utils.IsValidEmail(v) {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validatePort(v string) error {
	if !utils.IsValidPort(v) {
		return errors.New("enter a port between 1 and 65535")
	}
	return nil
}

func validateReplicas(v string) error {
	if !utils.IsPositiveInt(v) {
		return errors.New("enter a whole number greater than zero")
	}
	return nil
}

// purposeIn gates a question on the environment purpose.
func purposeIn(purposes ...string) func(Answers) bool {
	return func(a Answers) bool {
		return slices.Contains(purposes, a.Value(EnvironmentTypeQuestion))
	}
}

func envVariable(label, message string) Question {
	return Question{Name: label, Label: label, Kind: Variable, Scope: Environment, Prompt: Input, Message: message}
}

func envSecret(label, message string, prompt PromptType) Question {
	return Question{Name: label, Label: label, Kind: Secret, Scope: Environment, Prompt: prompt, Message: message}
}

func repoSecret(label, message string, prompt PromptType) Question {
	return Question{Name: label, Label: label, Kind: Secret, Scope: Repository, Prompt: prompt, Message: message}
}

// Sections returns the question catalogue in execution order.
func Sections() []Section {
	environmentType := Question{
		Name:    EnvironmentTypeQuestion,
		Prompt:  Select,
		Message: "What is this environment used for?",
		Choices: []string{PurposeProduction, PurposeStaging, PurposeQA, PurposeDevelopment},
		Default: PurposeQA,
	}

	domain := envVariable(DomainLabel, "Domain the environment is served from")
	domain.Validate = validateDomain

	replicas := envVariable("REPLICAS", "Number of application replicas")
	replicas.Default = "1"
	replicas.Validate = validateReplicas

	smtpPort := envSecret("SMTP_PORT", "SMTP port", Input)
	smtpPort.Default = "587"
	smtpPort.Validate = validatePort

	sender := envVariable("SENDER_EMAIL_ADDRESS", "Address notification emails are sent from")
	sender.Validate = validateEmail

	alert := envVariable("ALERT_EMAIL", "Address infrastructure alerts are sent to")
	alert.Validate = validateEmail

	backups := []Question{
		envSecret("BACKUP_HOST", "Host backups are copied to", Input),
		envSecret("BACKUP_SSH_USER", "SSH user on the backup host", Input),
		envVariable("BACKUP_DIRECTORY", "Directory on the backup host"),
	}
	for i := range backups {
		backups[i].When = purposeIn(PurposeProduction, PurposeStaging)
	}
	backups[2].Default = "/home/backup"

	sentry := envSecret("SENTRY_DSN", "Sentry DSN (leave empty to disable error reporting)", Password)
	sentry.Optional = true

	kibanaUser := envVariable("KIBANA_USERNAME", "Kibana username")
	kibanaUser.Default = "elastic"

	dockerAccount := envVariable("DOCKERHUB_ACCOUNT", "Docker Hub organisation or account")
	dockerRepo := envVariable("DOCKERHUB_REPO", "Docker Hub repository for the country configuration image")

	return []Section{
		{
			Name:      "Environment",
			Questions: []Question{environmentType},
		},
		{
			Name: "Docker Hub",
			Questions: []Question{
				dockerAccount,
				dockerRepo,
				repoSecret("DOCKER_USERNAME", "Docker Hub username", Input),
				repoSecret("DOCKER_TOKEN", "Docker Hub access token", Password),
			},
		},
		{
			Name: "Server",
			Questions: []Question{
				domain,
				replicas,
				envSecret("SSH_HOST", "Server hostname or IP address", Input),
				envSecret("SSH_USER", "SSH user used for deployments", Input),
				envSecret("SSH_KEY", "Path to the deploy user's private SSH key", File),
				envSecret("KNOWN_HOSTS", "Server host key line for known_hosts", Input),
			},
		},
		{
			Name: "SMTP",
			Questions: []Question{
				envSecret("SMTP_HOST", "SMTP host", Input),
				smtpPort,
				envSecret("SMTP_USERNAME", "SMTP username", Input),
				envSecret("SMTP_PASSWORD", "SMTP password", Password),
				sender,
				alert,
			},
		},
		{
			Name:      "Backups",
			Questions: backups,
		},
		{
			Name:      "Monitoring",
			Questions: []Question{sentry, kibanaUser},
		},
	}
}
