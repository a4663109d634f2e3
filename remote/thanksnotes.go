package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	errs "github.com/giberode/gib/errors"
)

type Totals struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	TotalGiven Number `json:"total_given"`
	TotalTaken Number `json:"total_taken"`
}

type Calculation struct {
	TotalGiven Number `json:"total_given"`
	TotalTaken Number `json:"total_taken"`
}

type BusinessTotal struct {
	Status              string `json:"status"`
	TotalBusinessAmount Number `json:"total_business_amount"`
}

type HistoryItem struct {
	ID             Text   `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	BusinessName   string `json:"business_name"`
	Phone          Text   `json:"phone"`
	TeamName       string `json:"team_name"`
	BusinessAmount Number `json:"business_amount"`
	CreatedAt      string `json:"created_at"`
	FilePath       string `json:"file_path"`
}

// ThanksNote is a referral recorded between two members
type ThanksNote struct {
	FromPhone string
	ToPhone   string
	Amount    float64
	// Direction is either "Given" or "Taken"
	Direction  string
	Attachment *File
}

type calculationResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    Calculation `json:"data"`
}

type historyResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []HistoryItem `json:"data"`
}

func (c *Client) ThanksTotals(ctx context.Context, phone string) (*Totals, error) {
	body, err := c.postJSON(ctx, "thanksnotecalculationv2.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	return decode[Totals]("thanksnotecalculationv2.php", body, totalsSchema)
}

func (c *Client) ThanksCalculation(ctx context.Context, phone string) (*Calculation, error) {
	body, err := c.postForm(ctx, "thanksnote_calculation.php", url.Values{"phone": {phone}})
	if err != nil {
		return nil, err
	}
	res, err := decode[calculationResponse]("thanksnote_calculation.php", body, calculationSchema)
	if err != nil {
		return nil, err
	}
	if res.Status != "success" {
		return nil, errs.WithMessage(errs.Parse, orDefault(res.Message, "Failed to fetch stats"))
	}
	return &res.Data, nil
}

func (c *Client) BusinessTotal(ctx context.Context) (*BusinessTotal, error) {
	body, err := c.get(ctx, "thanksnoteservealldata.php", nil)
	if err != nil {
		return nil, err
	}
	res, err := decode[BusinessTotal]("thanksnoteservealldata.php", body, businessTotalSchema)
	if err != nil {
		return nil, err
	}
	if res.Status != "success" {
		return nil, errs.WithMessage(errs.Parse, "Invalid response from server")
	}
	return res, nil
}

func (c *Client) ThanksHistory(ctx context.Context, phone string) ([]HistoryItem, error) {
	body, err := c.postJSON(ctx, "thanksnotehistoryv2.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	res, err := decode[historyResponse]("thanksnotehistoryv2.php", body, historySchema)
	if err != nil {
		return nil, err
	}
	if res.Status != "success" {
		return nil, errs.WithMessage(errs.Parse, orDefault(res.Message, "Failed to fetch history"))
	}
	return res.Data, nil
}

func (c *Client) UpdateThanksNote(ctx context.Context, id string, amount float64, teamName string) (*StatusResponse, error) {
	body, err := c.sendJSON(ctx, http.MethodPut, "thanksnotehistoryv2.php", map[string]string{
		"id":              id,
		"business_amount": strconv.FormatFloat(amount, 'f', -1, 64),
		"team_name":       teamName,
	})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("thanksnotehistoryv2.php", body, statusSchema)
}

func (c *Client) DeleteThanksNote(ctx context.Context, id string) (*StatusResponse, error) {
	body, err := c.sendJSON(ctx, http.MethodDelete, "thanksnotehistoryv2.php", map[string]string{"id": id})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("thanksnotehistoryv2.php", body, statusSchema)
}

func (c *Client) SubmitThanksNote(ctx context.Context, note ThanksNote) (*StatusResponse, error) {
	fields := []formField{
		{"from_phone", note.FromPhone},
		{"to_phone", note.ToPhone},
		{"business_amount", strconv.FormatFloat(note.Amount, 'f', -1, 64)},
		{"given_take", note.Direction},
	}
	body, err := c.postMultipart(ctx, "thanksnote_attach.php", fields, map[string]*File{"attachment": note.Attachment})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("thanksnote_attach.php", body, statusSchema)
}

// NotifyMember asks the backend to push a notification to phone
func (c *Client) NotifyMember(ctx context.Context, phone, title, message string) error {
	_, err := c.postJSON(ctx, "admin-dashboard/auto_noti.php", map[string]string{
		"phone": phone,
		"title": title,
		"body":  message,
	})
	return err
}
