package hid

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"encoding/xml"
	"text/template"

	"github.com/google/uuid"
)

// HIDServiceUUID is the Bluetooth Human Interface Device service class.
var HIDServiceUUID = uuid.MustParse("00001124-0000-1000-8000-00805f9b34fb")

//go:embed sdp/hid.xml
var sdpRecordXML string

var sdpTmpl = template.Must(template.New("sdp").Parse(sdpRecordXML))

func xmlEscape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// ServiceRecord renders the SDP record BlueZ publishes for the combo device.
func ServiceRecord(alias string) (string, error) {
	if alias == "" {
		alias = DefaultAlias
	}
	var b bytes.Buffer
	err := sdpTmpl.Execute(&b, struct {
		Name, Description, Provider, Descriptor string
	}{
		Name:        xmlEscape(alias),
		Description: "Keyboard and mouse",
		Provider:    "pageturner",
		Descriptor:  hex.EncodeToString(ReportDescriptor),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
