package model

type Department string

const (
	DepartmentCommercial  Department = "commercial"
	DepartmentSupport     Department = "support"
	DepartmentDirection   Department = "direction"
	DepartmentRecrutement Department = "recrutement"
)

type SMTPSettings struct {
	Host      string `yaml:"Host" json:"host"`
	Port      int    `yaml:"Port" json:"port"`
	Secure    bool   `yaml:"Secure" json:"secure"`
	User      string `yaml:"User" json:"user"`
	Password  string `yaml:"-" json:"-"`
	FromEmail string `yaml:"FromEmail" json:"fromEmail"`
	FromName  string `yaml:"FromName" json:"fromName"`
	ReplyTo   string `yaml:"ReplyTo" json:"replyTo"`
	Signature string `yaml:"Signature" json:"signature"`
	IsActive  bool   `yaml:"IsActive" json:"isActive"`
}

type IMAPSettings struct {
	Host string `yaml:"Host" json:"host"`
	Port int    `yaml:"Port" json:"port"`
	TLS  bool   `yaml:"TLS" json:"tls"`
}

type EmailAccount struct {
	ID          string       `yaml:"ID" json:"id"`
	Name        string       `yaml:"Name" json:"name"`
	Email       string       `yaml:"Email" json:"email"`
	Description string       `yaml:"Description" json:"description"`
	Department  Department   `yaml:"Department" json:"department"`
	IsDefault   bool         `yaml:"IsDefault" json:"isDefault"`
	IsActive    bool         `yaml:"IsActive" json:"isActive"`
	PasswordEnv string       `yaml:"PasswordEnv" json:"-"`
	SMTP        SMTPSettings `yaml:"SMTP" json:"smtpSettings"`
	IMAP        IMAPSettings `yaml:"IMAP" json:"imapSettings"`
}

// AccountSummary is the public view of an account, without any settings.
type AccountSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Department  Department `json:"department"`
	Description string     `json:"description"`
	IsDefault   bool       `json:"isDefault"`
	IsActive    bool       `json:"isActive"`
}

func (a EmailAccount) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Department:  a.Department,
		Description: a.Description,
		IsDefault:   a.IsDefault,
		IsActive:    a.IsActive,
	}
}
