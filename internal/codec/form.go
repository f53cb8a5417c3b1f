package codec

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

// Booking form (stage 1) field names.
const (
	FieldStartStation   = "selectStartStation"
	FieldDestStation    = "selectDestinationStation"
	FieldOutboundDate   = "toTimeInputField"
	FieldOutboundTime   = "toTimeTable"
	FieldSeatPreference = "seatCon:seatRadioGroup"
	FieldCabinClass     = "trainCon:trainRadioGroup"
	FieldSearchMethod   = "bookingMethod"
	FieldTripType       = "tripCon:typesoftrip"
	FieldCaptcha        = "homeCaptcha:securityCode"
	FieldBookingMark    = "BookingS1Form:hf:0"
	FieldInboundDate    = "backTimeInputField"
	FieldInboundTime    = "backTimeTable"
	FieldOutboundTrain  = "toTrainIDInputField"
	FieldInboundTrain   = "backTrainIDInputField"
	ticketRowTemplate   = "ticketPanel:rows:%d:ticketAmount"
)

// Train selection (stage 2) field names.
const (
	FieldTrainGroup    = "TrainQueryDataViewPanel:TrainGroup"
	FieldSelectionMark = "BookingS2Form:hf:0"
)

// Ticket confirmation (stage 3) field names.
const (
	FieldPersonalID   = "dummyId"
	FieldPhone        = "dummyPhone"
	FieldMemberSystem = "TicketMemberSystemInputPanel:TakerMemberSystemDataView:memberSystemRadioGroup"
	FieldConfirmMark  = "BookingS3FormSP:hf:0"
	FieldIDInputRadio = "idInputRadio"
	FieldDiffOver     = "diffOver"
	FieldEmail        = "email"
	FieldAgree        = "agree"
	FieldGoBack       = "isGoBackM"
	FieldBackHome     = "backHome"
	FieldTgoError     = "TgoError"
)

// EncodeBookingForm renders the stage 1 submission. Absent optional fields
// are omitted entirely.
func EncodeBookingForm(req domain.BookingRequest) (url.Values, error) {
	d := req.Draft
	start, err := StationCode(d.StartStation)
	if err != nil {
		return nil, err
	}
	dest, err := StationCode(d.DestStation)
	if err != nil {
		return nil, err
	}
	seat, err := SeatPreferenceCode(d.SeatPreference)
	if err != nil {
		return nil, err
	}
	cabin, err := CabinClassCode(d.CabinClass)
	if err != nil {
		return nil, err
	}
	trip, err := TripTypeCode(req.TripType)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(FieldStartStation, strconv.Itoa(start))
	form.Set(FieldDestStation, strconv.Itoa(dest))
	form.Set(FieldOutboundDate, d.OutboundDate)
	form.Set(FieldOutboundTime, d.OutboundTime)
	form.Set(FieldSeatPreference, strconv.Itoa(seat))
	form.Set(FieldCabinClass, strconv.Itoa(cabin))
	for _, c := range domain.TicketCategories() {
		row, err := lookupTicketRow(c)
		if err != nil {
			return nil, err
		}
		form.Set(fmt.Sprintf(ticketRowTemplate, row.index), EncodeTicketCount(d.Tickets.Get(c), row.suffix))
	}
	form.Set(FieldSearchMethod, req.SearchMethod)
	form.Set(FieldTripType, strconv.Itoa(trip))
	form.Set(FieldCaptcha, req.CaptchaSolution)
	form.Set(FieldBookingMark, "")
	if req.InboundDate != nil {
		form.Set(FieldInboundDate, *req.InboundDate)
	}
	if req.InboundTime != nil {
		form.Set(FieldInboundTime, *req.InboundTime)
	}
	if req.OutboundTrainID != nil {
		form.Set(FieldOutboundTrain, strconv.Itoa(*req.OutboundTrainID))
	}
	if req.InboundTrainID != nil {
		form.Set(FieldInboundTrain, strconv.Itoa(*req.InboundTrainID))
	}
	return form, nil
}

// DecodeBookingForm reads the draft portion back out of a stage 1 form.
// Missing ticket rows count as zero.
func DecodeBookingForm(form url.Values) (domain.BookingDraft, error) {
	var d domain.BookingDraft

	start, err := decodeCode(form, FieldStartStation)
	if err != nil {
		return d, err
	}
	if d.StartStation, err = StationFromCode(start); err != nil {
		return d, err
	}
	dest, err := decodeCode(form, FieldDestStation)
	if err != nil {
		return d, err
	}
	if d.DestStation, err = StationFromCode(dest); err != nil {
		return d, err
	}
	seat, err := decodeCode(form, FieldSeatPreference)
	if err != nil {
		return d, err
	}
	if d.SeatPreference, err = SeatPreferenceFromCode(seat); err != nil {
		return d, err
	}
	if form.Has(FieldCabinClass) {
		cabin, err := decodeCode(form, FieldCabinClass)
		if err != nil {
			return d, err
		}
		if d.CabinClass, err = CabinClassFromCode(cabin); err != nil {
			return d, err
		}
	}

	d.OutboundDate = form.Get(FieldOutboundDate)
	d.OutboundTime = form.Get(FieldOutboundTime)

	for _, c := range domain.TicketCategories() {
		row, err := lookupTicketRow(c)
		if err != nil {
			return d, err
		}
		field := fmt.Sprintf(ticketRowTemplate, row.index)
		if !form.Has(field) {
			continue
		}
		n, err := DecodeTicketCount(form.Get(field), row.suffix)
		if err != nil {
			return d, fmt.Errorf("%s: %w", field, err)
		}
		d.Tickets.Set(c, n)
	}
	return d, nil
}

func decodeCode(form url.Values, field string) (int, error) {
	n, err := strconv.Atoi(form.Get(field))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrUnknownCode, field, form.Get(field))
	}
	return n, nil
}

func EncodeTrainSelectionForm(req domain.TrainSelectionRequest) url.Values {
	form := url.Values{}
	form.Set(FieldTrainGroup, req.SelectionToken)
	form.Set(FieldSelectionMark, "")
	return form
}

// EncodeConfirmationForm renders the stage 3 submission with the site's
// fixed defaults.
func EncodeConfirmationForm(req domain.TicketConfirmationRequest) url.Values {
	form := url.Values{}
	form.Set(FieldPersonalID, req.Identity.PersonalID)
	form.Set(FieldPhone, req.Identity.Phone)
	for key, id := range req.IdentityFields {
		form.Set(key, id)
	}
	form.Set(FieldMemberSystem, req.MemberToken)
	form.Set(FieldConfirmMark, "")
	form.Set(FieldIDInputRadio, "0")
	form.Set(FieldDiffOver, "1")
	form.Set(FieldEmail, "")
	form.Set(FieldAgree, "on")
	form.Set(FieldGoBack, "")
	form.Set(FieldBackHome, "")
	form.Set(FieldTgoError, "1")
	return form
}
