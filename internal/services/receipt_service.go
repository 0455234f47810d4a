package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/utils"
)

// ReceiptService renders a payment receipt PDF for a participation record.
type ReceiptService struct {
	Things         ThingStore
	People         PersonStore
	Participations ParticipationStore
	Logger         *zap.Logger
	RequestID      string
	Now            func() time.Time
	Loader         func(context.Context, int64) (receiptData, error)
}

type receiptData struct {
	Record   models.ParticipationRecord
	TripName string
	Person   models.Person
	Quote    models.PriceQuote
	IssuedAt time.Time
}

// GenerateReceipt returns the PDF bytes and a download filename.
func (s ReceiptService) GenerateReceipt(ctx context.Context, participationID int64) ([]byte, string, error) {
	data, err := s.load(ctx, participationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.Logger, s.RequestID, "receipt", "generate",
		zap.Int64("participation_id", participationID),
		zap.Int64("amount_paid", data.Record.AmountPaid))
	return buildReceiptPDF(data)
}

func (s ReceiptService) load(ctx context.Context, id int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	rec, err := s.Participations.GetParticipation(ctx, id)
	if err != nil {
		return receiptData{}, err
	}
	trip, err := s.Things.GetThing(ctx, rec.TripID)
	if err != nil {
		return receiptData{}, err
	}
	person, err := s.People.GetPerson(ctx, rec.PersonID)
	if err != nil {
		return receiptData{}, err
	}
	now := nowOrDefault(s.Now)
	return receiptData{
		Record:   rec,
		TripName: trip.Name,
		Person:   person,
		Quote:    domain.ResolvePrice(trip, person.Tier, now),
		IssuedAt: now,
	}, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	receiptNo := fmt.Sprintf("RCPT-%06d", d.Record.ID)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+receiptNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+utils.FormatDateTime(d.IssuedAt)+" UTC")
	pdf.Ln(10)

	approved := "-"
	if d.Record.ApprovedAt != nil {
		approved = utils.FormatDate(*d.Record.ApprovedAt)
	}
	outstanding := d.Quote.Amount - d.Record.AmountPaid
	if outstanding < 0 {
		outstanding = 0
	}

	lines := []string{
		fmt.Sprintf("Participant    : %s", utils.Fallback(d.Person.Name, "-")),
		fmt.Sprintf("Pricing tier   : %s", utils.Fallback(string(d.Person.Tier), "-")),
		fmt.Sprintf("Trip           : %s (#%d)", utils.Fallback(d.TripName, "-"), d.Record.TripID),
		fmt.Sprintf("Registered     : %s", utils.FormatDate(d.Record.RegisteredAt)),
		fmt.Sprintf("Approval       : %s (%s)", d.Record.ApprovalStatus, approved),
		fmt.Sprintf("Payment status : %s", d.Record.PaymentStatus),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Amounts:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Price (%s)  : %s", d.Quote.Source, utils.FormatAmount(d.Quote.Amount)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Paid to date : "+utils.FormatAmount(d.Record.AmountPaid))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Outstanding  : "+utils.FormatAmount(outstanding))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Amounts are in minor currency units. Payments are recorded manually by an administrator.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", d.Record.ID, utils.SafeFilenamePart(d.Person.Name))
	return buf.Bytes(), filename, nil
}
