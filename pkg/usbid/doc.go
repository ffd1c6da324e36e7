// Package usbid compiles the USB ID database into lookup tables.
//
// The USB ID database (usb.ids) is a flat text file maintained by the
// linux-usb.org project and distributed with most Linux systems. Besides
// vendors and their devices it lists device classes, audio and video
// terminal types, HID descriptor, item and country codes, physical
// descriptor types, HID usage pages and USB language IDs. Each of these
// eleven parts is a [Section].
//
// # Format
//
// Records are one per line: an optional prefix token, a fixed-width hex ID,
// two spaces and a name. Nesting is expressed by leading tabs only:
//
//	1d6b  Linux Foundation
//		0003  3.0 root hub
//	C 03  Human Interface Device
//		01  Boot Interface Subclass
//			01  Keyboard
//
// A nested record belongs to the record most recently opened one level up.
// Sections after the vendors are opened by header comments such as
// "# C class  class_name". Any line that cannot be placed aborts the
// compile with a [*pkg.ParseError] naming the line, the section and the
// raw text.
//
// # Usage
//
// Compile the system database once at startup:
//
//	db, err := usbid.Default()
//	if err != nil {
//	    return err
//	}
//
// Then look up names:
//
//	vendorName := db.LookupVendor(0x1d6b)
//	productName := db.LookupProduct(0x1d6b, 0x0003)
//	proto, ok := db.Protocol(0x03, 0x01, 0x01)
//
// # Database Locations
//
// [Default] and [Open] search these locations, in order:
//
//   - /usr/share/hwdata/usb.ids
//   - /var/lib/usbutils/usb.ids
//   - /usr/share/misc/usb.ids
//
// The USBID_PATH environment variable replaces this list for [Default].
//
// # Snapshots
//
// A compiled [Database] can be saved as a CBOR [Snapshot] with
// [WriteSnapshot] and restored with [ReadSnapshot], skipping the text parse.
//
// # Thread Safety
//
// A [Database] is immutable once compiled; all of its methods are safe for
// concurrent use. A [Parser] is not.
package usbid
