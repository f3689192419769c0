package models

type Role string

const (
	StudentRole      Role = "student"
	EntrepreneurRole Role = "entrepreneur"
)

func (r Role) Valid() bool {
	return r == StudentRole || r == EntrepreneurRole
}
