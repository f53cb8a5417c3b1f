package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) Node {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := ParseHTMLBytes(data)
	require.NoError(t, err)
	return doc
}

func parseString(t *testing.T, s string) Node {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func newParser() *ResponseParser {
	return NewResponseParser(logger.NewNop())
}

func TestExtractValidationErrors_DocumentOrder(t *testing.T) {
	messages := newParser().ExtractValidationErrors(loadFixture(t, "errors.html"))

	require.Len(t, messages, 2)
	assert.Equal(t, "檢測碼輸入錯誤，請確認後重新輸入，謝謝！", messages[0])
	assert.Equal(t, "去程查無可售車次或選購的車票已售完，請重新輸入訂票條件。", messages[1])
}

func TestExtractValidationErrors_NoneIsSuccess(t *testing.T) {
	p := newParser()
	doc := loadFixture(t, "trains.html")

	assert.Empty(t, p.ExtractValidationErrors(doc))
	assert.NoError(t, p.CheckSubmission(doc))
}

func TestCheckSubmission_Rejected(t *testing.T) {
	err := newParser().CheckSubmission(loadFixture(t, "errors.html"))

	var rejected *domain.ValidationRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Len(t, rejected.Messages, 2)
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
}

func TestExtractBookingPage(t *testing.T) {
	page, err := newParser().ExtractBookingPage(loadFixture(t, "booking_page.html"))
	require.NoError(t, err)

	assert.Equal(t, "radio31", page.SearchMethod)
	assert.Equal(t, []string{"600A", "630A", "930A", "1201A"}, page.TimeSlots)
	assert.Equal(t, "/IMINT/?wicket:interface=:0:BookingS1Form:homeCaptcha:passCode::IResourceListener&random=0.42", page.CaptchaURL)
	assert.Empty(t, page.SessionID)
}

func TestExtractBookingPage_MissingCaptcha(t *testing.T) {
	doc := parseString(t, `<html><body>
		<input name="bookingMethod" data-target="search-by-time" value="radio31">
		<select name="toTimeTable"><option value="930A">09:30</option></select>
	</body></html>`)

	_, err := newParser().ExtractBookingPage(doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestExtractTrainOptions_TwoRows(t *testing.T) {
	trains, err := newParser().ExtractTrainOptions(loadFixture(t, "trains.html"))
	require.NoError(t, err)
	require.Len(t, trains, 2)

	assert.Equal(t, domain.TrainOption{
		ID:             637,
		Departure:      "09:46",
		Arrival:        "11:31",
		Duration:       "01:45",
		Discount:       "Early Bird",
		SelectionToken: "radio17",
	}, trains[0])
	assert.Equal(t, 811, trains[1].ID)
	assert.Equal(t, "02:00", trains[1].Duration)
	assert.Empty(t, trains[1].Discount)
	assert.Equal(t, "radio19", trains[1].SelectionToken)
}

func TestExtractTrainOptions_MultipleDiscounts(t *testing.T) {
	doc := parseString(t, `<html><body><label>
		<input name="TrainQueryDataViewPanel:TrainGroup" value="radio1">
		<span id="QueryDeparture">06:00</span>
		<span class="duration"><span>i</span><span>01:30</span></span>
		<span id="QueryArrival">07:30</span>
		<span id="QueryCode">0101</span>
		<p class="student">Student 50%</p>
		<p class="early-bird">Early Bird 35%</p>
	</label></body></html>`)

	trains, err := newParser().ExtractTrainOptions(doc)
	require.NoError(t, err)
	require.Len(t, trains, 1)
	assert.Equal(t, "Early Bird 35%, Student 50%", trains[0].Discount)
}

func TestExtractTrainOptions_MissingElementIsFatal(t *testing.T) {
	doc := parseString(t, `<html><body><label>
		<input name="TrainQueryDataViewPanel:TrainGroup" value="radio1">
		<span id="QueryDeparture">06:00</span>
		<span id="QueryCode">0101</span>
	</label></body></html>`)

	_, err := newParser().ExtractTrainOptions(doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestExtractTrainOptions_NonNumericCode(t *testing.T) {
	doc := parseString(t, `<html><body><label>
		<input name="TrainQueryDataViewPanel:TrainGroup" value="radio1">
		<span id="QueryDeparture">06:00</span>
		<span class="duration"><span>i</span><span>01:30</span></span>
		<span id="QueryArrival">07:30</span>
		<span id="QueryCode">X1</span>
	</label></body></html>`)

	_, err := newParser().ExtractTrainOptions(doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestExtractMemberToken(t *testing.T) {
	p := newParser()

	token, err := p.ExtractMemberToken(loadFixture(t, "train_selected.html"))
	require.NoError(t, err)
	assert.Equal(t, "radio44", token)

	_, err = p.ExtractMemberToken(loadFixture(t, "trains.html"))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestExtractConfirmationSummary(t *testing.T) {
	summary, err := newParser().ExtractConfirmationSummary(loadFixture(t, "confirmation.html"))
	require.NoError(t, err)

	assert.Equal(t, &domain.ConfirmationSummary{
		TicketID:    "09415637",
		TotalPrice:  "TWD 2,210",
		Date:        "01/21",
		FromStation: "南港",
		ToStation:   "左營",
		DepartTime:  "09:46",
		ArriveTime:  "11:31",
		TrainCode:   "0637",
		CabinLabel:  "標準車廂",
		SeatLabels:  []string{"7車12A", "7車12B"},
	}, summary)
}

func TestExtractConfirmationSummary_MissingCabin(t *testing.T) {
	doc := parseString(t, `<html><body>
		<p class="pnr-code"><span>1</span></p>
		<span id="setTrainTotalPriceValue">1</span>
		<span class="date"><span>01/21</span></span>
		<p class="departure-stn"><span>a</span></p>
		<p class="arrival-stn"><span>b</span></p>
		<span id="setTrainDeparture0">1</span>
		<span id="setTrainArrival0">2</span>
		<span id="setTrainCode0">3</span>
	</body></html>`)

	_, err := newParser().ExtractConfirmationSummary(doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}
