package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownCommand - данные кнопки не распознаны (устаревшая или чужая кнопка)
var ErrUnknownCommand = errors.New("неизвестная команда кнопки")

// Command - нажатие на кнопку, разобранное из callback data.
// Data возвращает строку, которая кладётся в кнопку.
type Command interface {
	Data() string
}

type (
	MainMenu        struct{}
	PackageDetails  struct{ Package string }
	PackageInterest struct{ Package string }
	PackageSchedule struct{ Package string }
	PackageQuote    struct{ Package string }
	BackToCatalog   struct{}

	SelectDate  struct{ Date string } // 2006-01-02
	SelectTime  struct{ Time string } // 15:04
	BackToDates struct{}

	SelectInterest struct{ Topic string }

	ShowFAQ      struct{ Topic string }
	BackToFAQ    struct{}
	HumanSupport struct{}

	ApproveAppointment struct{ ID int }
	RejectAppointment  struct{ ID int }

	ShowMenu       struct{}
	ShowCategory   struct{ Category string }
	AddToCart      struct{ ItemID string }
	RemoveFromCart struct{ ItemID string }
	ShowCart       struct{}
	ConfirmOrder   struct{}
	ClearCart      struct{}
	ShowOrders     struct{}

	ShowLocation struct{}
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func (MainMenu) Data() string             { return "main_menu" }
func (c PackageDetails) Data() string     { return "details_" + c.Package }
func (c PackageInterest) Data() string    { return "interest_" + c.Package }
func (c PackageSchedule) Data() string    { return "schedule_" + c.Package }
func (c PackageQuote) Data() string       { return "quote_" + c.Package }
func (BackToCatalog) Data() string        { return "back_catalog" }
func (c SelectDate) Data() string         { return "date_" + c.Date }
func (c SelectTime) Data() string         { return "time_" + c.Time }
func (BackToDates) Data() string          { return "back_dates" }
func (c SelectInterest) Data() string     { return "int_" + c.Topic }
func (c ShowFAQ) Data() string            { return "faq_" + c.Topic }
func (BackToFAQ) Data() string            { return "back_faq" }
func (HumanSupport) Data() string         { return "human_support" }
func (c ApproveAppointment) Data() string { return "approve_appt_" + strconv.Itoa(c.ID) }
func (c RejectAppointment) Data() string  { return "reject_appt_" + strconv.Itoa(c.ID) }
func (ShowMenu) Data() string             { return "show_menu" }
func (c ShowCategory) Data() string       { return "cat_" + c.Category }
func (c AddToCart) Data() string          { return "add_" + c.ItemID }
func (c RemoveFromCart) Data() string     { return "remove_" + c.ItemID }
func (ShowCart) Data() string             { return "show_cart" }
func (ConfirmOrder) Data() string         { return "confirm_order" }
func (ClearCart) Data() string            { return "clear_cart" }
func (ShowOrders) Data() string           { return "my_orders" }
func (ShowLocation) Data() string         { return "location" }

var exactCommands = map[string]Command{
	"main_menu":     MainMenu{},
	"back_catalog":  BackToCatalog{},
	"back_dates":    BackToDates{},
	"back_faq":      BackToFAQ{},
	"human_support": HumanSupport{},
	"show_menu":     ShowMenu{},
	"show_cart":     ShowCart{},
	"confirm_order": ConfirmOrder{},
	"clear_cart":    ClearCart{},
	"my_orders":     ShowOrders{},
	"location":      ShowLocation{},
}

// DecodeCallback разбирает callback data в команду. Параметры проверяются здесь,
// обработчики получают уже валидные значения.
func DecodeCallback(data string) (Command, error) {
	if cmd, ok := exactCommands[data]; ok {
		return cmd, nil
	}

	prefix, arg, ok := splitPrefix(data)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, data)
	}

	switch prefix {
	case "details_", "interest_", "schedule_", "quote_":
		if _, known := packages[arg]; !known {
			break
		}
		switch prefix {
		case "details_":
			return PackageDetails{Package: arg}, nil
		case "interest_":
			return PackageInterest{Package: arg}, nil
		case "schedule_":
			return PackageSchedule{Package: arg}, nil
		default:
			return PackageQuote{Package: arg}, nil
		}
	case "date_":
		if _, err := time.Parse(dateLayout, arg); err == nil {
			return SelectDate{Date: arg}, nil
		}
	case "time_":
		if _, err := time.Parse(timeLayout, arg); err == nil {
			return SelectTime{Time: arg}, nil
		}
	case "int_":
		if _, known := interestLabels[arg]; known {
			return SelectInterest{Topic: arg}, nil
		}
	case "faq_":
		if _, known := faqTopics[arg]; known {
			return ShowFAQ{Topic: arg}, nil
		}
	case "approve_appt_", "reject_appt_":
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			break
		}
		if prefix == "approve_appt_" {
			return ApproveAppointment{ID: id}, nil
		}
		return RejectAppointment{ID: id}, nil
	case "cat_":
		if _, known := menuCategories[arg]; known {
			return ShowCategory{Category: arg}, nil
		}
	case "add_":
		return AddToCart{ItemID: arg}, nil
	case "remove_":
		return RemoveFromCart{ItemID: arg}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, data)
}

// Префиксы с параметром; более длинные проверяются раньше
var commandPrefixes = []string{
	"approve_appt_",
	"reject_appt_",
	"interest_",
	"schedule_",
	"details_",
	"remove_",
	"quote_",
	"date_",
	"time_",
	"faq_",
	"cat_",
	"int_",
	"add_",
}

func splitPrefix(data string) (prefix, arg string, ok bool) {
	for _, p := range commandPrefixes {
		if rest, found := strings.CutPrefix(data, p); found && rest != "" {
			return p, rest, true
		}
	}
	return "", "", false
}
