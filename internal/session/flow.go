package session

// Flow - активный многошаговый диалог пользователя.
// Реализуют только Contact, Appointment и Support.
type Flow interface {
	flow()
}

type ContactStep int

const (
	ContactName ContactStep = iota + 1
	ContactBusiness
	ContactInterest
	ContactPhone
)

func (s ContactStep) String() string {
	switch s {
	case ContactName:
		return "name"
	case ContactBusiness:
		return "business"
	case ContactInterest:
		return "interest"
	case ContactPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// Contact - сбор контакта: имя, бизнес, интерес, телефон
type Contact struct {
	Step     ContactStep
	Name     string
	Business string
	Interest string
	// Package - пакет из каталога, если форма открыта кнопкой "התעניינות"
	Package string
}

type AppointmentStep int

const (
	AppointmentDate AppointmentStep = iota + 1
	AppointmentTime
	AppointmentName
	AppointmentPhone
)

func (s AppointmentStep) String() string {
	switch s {
	case AppointmentDate:
		return "date"
	case AppointmentTime:
		return "time"
	case AppointmentName:
		return "name"
	case AppointmentPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// Appointment - запись: дата, время, имя, телефон
type Appointment struct {
	Step    AppointmentStep
	Date    string
	Time    string
	Name    string
	Service string
}

// Support - ожидаем одно сообщение для живого оператора
type Support struct{}

func (*Contact) flow()     {}
func (*Appointment) flow() {}
func (*Support) flow()     {}

// FlowName - имя активного диалога для поля flow в логах
func FlowName(f Flow) string {
	switch f.(type) {
	case *Contact:
		return "contact"
	case *Appointment:
		return "appointment"
	case *Support:
		return "support"
	default:
		return "none"
	}
}
