package detect

import "fmt"

// Topology names the landmarks of a pose model and the joint pairs drawn as
// skeleton lines. Partial is the reduced torso and limb set.
type Topology struct {
	Name      string
	Landmarks []string
	Full      [][2]int
	Partial   [][2]int
}

// Index returns the position of a named landmark, or -1.
func (t *Topology) Index(name string) int {
	for i, n := range t.Landmarks {
		if n == name {
			return i
		}
	}
	return -1
}

// partialPairs are shared by every topology: shoulders, shoulder to elbow,
// hips, hip to knee.
var partialPairs = [][2]string{
	{"left_shoulder", "right_shoulder"},
	{"left_shoulder", "left_elbow"},
	{"right_shoulder", "right_elbow"},
	{"left_hip", "right_hip"},
	{"left_hip", "left_knee"},
	{"right_hip", "right_knee"},
}

func newTopology(name string, landmarks []string, full [][2]int) *Topology {
	t := &Topology{Name: name, Landmarks: landmarks, Full: full}
	for _, p := range partialPairs {
		a, b := t.Index(p[0]), t.Index(p[1])
		if a < 0 || b < 0 {
			panic(fmt.Sprintf("topology %s: missing landmark for pair %v", name, p))
		}
		t.Partial = append(t.Partial, [2]int{a, b})
	}
	return t
}

// MediaPipePose is the 33 landmark BlazePose layout.
var MediaPipePose = newTopology("mediapipe_pose", []string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}, [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	{11, 12}, {11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	{11, 23}, {12, 24}, {23, 24}, {23, 25}, {24, 26}, {25, 27}, {26, 28},
	{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
})

// COCOPose is the 17 keypoint COCO layout used by YOLOv8 pose models.
var COCOPose = newTopology("coco_pose", []string{
	"nose",
	"left_eye", "right_eye",
	"left_ear", "right_ear",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
}, [][2]int{
	{15, 13}, {13, 11}, {16, 14}, {14, 12}, {11, 12},
	{5, 11}, {6, 12}, {5, 6}, {5, 7}, {6, 8}, {7, 9}, {8, 10},
	{1, 2}, {0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6},
})

// TopologyByName resolves a topology from its wire name.
func TopologyByName(name string) (*Topology, bool) {
	switch name {
	case MediaPipePose.Name, "mediapipe", "blazepose":
		return MediaPipePose, true
	case COCOPose.Name, "coco", "coco17":
		return COCOPose, true
	}
	return nil, false
}
