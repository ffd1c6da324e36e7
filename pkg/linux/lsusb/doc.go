// Package lsusb lists attached USB devices by name.
//
// [Scan] reads the device tree the Linux kernel exports under
// /sys/bus/usb/devices and [Describe] labels each device with names from a
// [usbid.Database], in the format used by the lsusb utility:
//
//	db, err := usbid.Default()
//	if err != nil {
//	    return err
//	}
//	devices, err := lsusb.Scan("")
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(lsusb.Describe(db, d))
//	}
//
// Scan is only available on Linux.
package lsusb
