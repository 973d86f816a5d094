// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package frequency

// channelByMHz maps Wi-Fi center frequencies to channel numbers.
// Lookups are exact; there is no interpolation between entries.
var channelByMHz = map[int]string{
	// 2.4 GHz
	2412: "1", 2417: "2", 2422: "3", 2427: "4", 2432: "5", 2437: "6",
	2442: "7", 2447: "8", 2452: "9", 2457: "10", 2462: "11", 2467: "12",
	2472: "13", 2484: "14",

	// UNII-1
	5180: "36", 5190: "38", 5200: "40", 5210: "42", 5220: "44", 5230: "46",
	5240: "48", 5250: "50",
	// UNII-2A
	5260: "52", 5270: "54", 5280: "56", 5290: "58", 5300: "60", 5310: "62",
	5320: "64",
	// UNII-2C
	5500: "100", 5510: "102", 5520: "104", 5530: "106", 5540: "108",
	5550: "110", 5560: "112", 5570: "114", 5580: "116", 5590: "118",
	5600: "120", 5610: "122", 5620: "124", 5630: "126", 5640: "128",
	5650: "130", 5660: "132", 5670: "134", 5680: "136", 5690: "138",
	5700: "140",
	// UNII-3
	5745: "149", 5760: "151", 5775: "153", 5790: "155", 5805: "157",
	5820: "159", 5835: "161", 5850: "165",
}
