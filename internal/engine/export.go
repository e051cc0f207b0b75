package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// ExportVCards writes every record of book to w as a vCard 4.0, in book order.
// Phones are typed as cell numbers; the birthday is written as YYYY-MM-DD.
func ExportVCards(w io.Writer, book *addressbook.AddressBook) error {
	enc := vcard.NewEncoder(w)
	records := book.Records()

	for _, r := range records {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, r.Name().String())

		for _, p := range r.Phones() {
			card.Add(vcard.FieldTelephone, &vcard.Field{
				Value:  p.String(),
				Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
			})
		}
		if b, ok := r.Birthday(); ok {
			card.SetValue(vcard.FieldBirthday, b.Date().Format(config.VCardDateDash))
		}

		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}

	slog.Debug(config.MsgExported,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(records))
	return nil
}
