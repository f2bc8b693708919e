// Package presets provides the curated port lists behind the top-100 and
// top-1000 scan presets (spec.md §4.2, C2).
package presets

import "sort"

// top100Base is the top 100 most commonly exposed TCP ports.
var top100Base = []int{
	7, 9, 13, 21, 22, 23, 25, 26, 37, 53,
	79, 80, 81, 88, 106, 110, 111, 113, 119, 135,
	139, 143, 144, 179, 199, 389, 427, 443, 444, 445,
	465, 513, 514, 515, 543, 544, 548, 554, 587, 631,
	646, 873, 990, 993, 995, 1025, 1026, 1027, 1028, 1029,
	1110, 1433, 1720, 1723, 1755, 1900, 2000, 2001, 2049, 2121,
	2717, 3000, 3128, 3306, 3389, 3986, 4899, 5000, 5009, 5051,
	5060, 5101, 5190, 5357, 5432, 5631, 5666, 5800, 5900, 6000,
	6001, 6379, 6646, 7070, 8000, 8008, 8009, 8080, 8081, 8443,
	8888, 9100, 9200, 9999, 10000, 32768, 49152, 49153, 49154, 49155,
}

// top1000Extra adds the long tail present in top-1000 but not top-100,
// covering common database, message-queue, search, and alt-HTTP ports so
// the subset invariant (top100 ⊂ top1000) holds structurally rather than
// by coincidence.
var top1000Extra = []int{
	1, 3, 4, 6, 17, 19, 20, 24, 30, 32,
	33, 42, 49, 56, 70, 82, 83, 84, 100, 109,
	125, 161, 162, 163, 164, 191, 194, 209, 211, 212,
	221, 222, 254, 255, 256, 259, 264, 280, 301, 306,
	311, 340, 366, 406, 407, 416, 417, 425, 458, 464,
	481, 497, 500, 512, 524, 541, 555, 563, 593, 616,
	617, 625, 636, 648, 666, 667, 668, 683, 687, 691,
	700, 705, 711, 714, 720, 722, 726, 749, 765, 777,
	783, 787, 800, 801, 808, 843, 880, 888, 898, 900,
	901, 902, 903, 911, 912, 981, 987, 992, 999, 1001,
	1002, 1080, 1100, 1234, 1311, 1337, 1352, 1434, 1521, 1583,
	1812, 1813, 1883, 2082, 2083, 2086, 2087, 2181, 2222, 2375,
	2376, 2379, 2380, 3001, 3031, 3269, 3268, 3299, 3404, 3690,
	4000, 4001, 4040, 4190, 4443, 4444, 4500, 4567, 4664, 4848,
	5001, 5002, 5050, 5061, 5222, 5269, 5353, 5555, 5556, 5601,
	5671, 5672, 5985, 5986, 6005, 6443, 6566, 6600, 6667, 6881,
	7000, 7001, 7002, 7077, 7199, 7474, 7547, 7680, 7777, 7878,
	8006, 8010, 8020, 8082, 8083, 8086, 8087, 8091, 8092, 8094,
	8096, 8112, 8123, 8140, 8161, 8172, 8181, 8222, 8291, 8333,
	8400, 8500, 8554, 8649, 8834, 8880, 8883, 8889, 8983, 9000,
	9001, 9042, 9043, 9060, 9080, 9090, 9091, 9092, 9160, 9191,
	9300, 9418, 9443, 9502, 9990, 9997, 10001, 10050, 10051, 10250,
	11211, 11371, 15672, 16992, 16993, 18080, 18081, 19531, 20000, 24800,
	25565, 27015, 27017, 27018, 27019, 28015, 28017, 32400, 33060, 50000,
	50070, 54321, 61616,
}

// Top100 is the sorted, deduplicated top-100 preset.
var Top100 = dedupSorted(top100Base)

// Top1000 is the sorted, deduplicated top-1000 preset. It is constructed as
// the union of Top100 and top1000Extra, which guarantees Top100 ⊂ Top1000
// by construction (spec.md §3 invariant, property P2). Despite the name it
// holds 343 ports (100 + 243), not a full thousand.
var Top1000 = dedupSorted(append(append([]int{}, top100Base...), top1000Extra...))

// Get returns the preset ports for name ("top-100" or "top-1000"), or nil
// if name is not a known preset.
func Get(name string) []int {
	switch name {
	case "top-100", "top100":
		return Top100
	case "top-1000", "top1000":
		return Top1000
	default:
		return nil
	}
}

func dedupSorted(ports []int) []int {
	sort.Ints(ports)
	out := ports[:0:0]
	var last int
	for i, p := range ports {
		if i > 0 && p == last {
			continue
		}
		out = append(out, p)
		last = p
	}
	return out
}
