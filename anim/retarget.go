package anim

import "strings"

// mixamoPrefix marks tracks authored against the Mixamo rig.
const mixamoPrefix = "mixamorig:"

// boneRenames maps Mixamo rig bones to the goblin skeleton.
var boneRenames = map[string]string{
	"mixamorig:Hips":          "Hips",
	"mixamorig:Spine":         "Spine_01",
	"mixamorig:Spine1":        "Spine_02",
	"mixamorig:Spine2":        "Spine_03",
	"mixamorig:Neck":          "Neck",
	"mixamorig:Head":          "Head",
	"mixamorig:LeftShoulder":  "Clavicle_L",
	"mixamorig:RightShoulder": "Clavicle_R",
	"mixamorig:LeftArm":       "Shoulder_L",
	"mixamorig:RightArm":      "Shoulder_R",
	"mixamorig:LeftForeArm":   "Elbow_L",
	"mixamorig:RightForeArm":  "Elbow_R",
	"mixamorig:LeftHand":      "Hand_L",
	"mixamorig:RightHand":     "Hand_R",
	"mixamorig:LeftUpLeg":     "UpperLeg_L",
	"mixamorig:RightUpLeg":    "UpperLeg_R",
	"mixamorig:LeftLeg":       "LowerLeg_L",
	"mixamorig:RightLeg":      "LowerLeg_R",
	"mixamorig:LeftFoot":      "Ankle_L",
	"mixamorig:RightFoot":     "Ankle_R",
	"mixamorig:LeftToeBase":   "Toes_L",
	"mixamorig:RightToeBase":  "Toes_R",
}

// Retarget rewrites a Mixamo-authored clip in place: bones are renamed
// to the goblin skeleton and every position track is dropped. Root
// motion is removed on purpose; agent positions are driven by the
// behavior step, never by animation. Prefixed bones without a rename
// entry (fingers, twist helpers) target nothing and are dropped too.
// Non-Mixamo clips pass through untouched.
func Retarget(c *Clip) {
	if c.Source != "mixamo" {
		return
	}
	kept := c.Tracks[:0]
	for _, tr := range c.Tracks {
		if tr.Channel == ChannelPosition {
			continue
		}
		if strings.HasPrefix(tr.Bone, mixamoPrefix) {
			renamed, ok := boneRenames[tr.Bone]
			if !ok {
				continue
			}
			tr.Bone = renamed
		}
		kept = append(kept, tr)
	}
	c.Tracks = kept
	c.Source = "native"
}
