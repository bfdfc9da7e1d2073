package inputstore

const (
	// StoreKeyPrefixID defines the prefix of the map from transition ID to
	// its ordered input IDs.
	StoreKeyPrefixID byte = 0

	// StoreKeyPrefixReverseID defines the prefix of the map from input ID
	// back to its transition ID.
	StoreKeyPrefixReverseID byte = 1

	// StoreKeyPrefix{Constant,Public,Private,Record,RecordTag,ExternalRecord}
	// define the prefixes of the five variant maps and the tag side of the
	// record link. Every input ID lives in exactly one of the variant maps.
	StoreKeyPrefixConstant       byte = 2
	StoreKeyPrefixPublic         byte = 3
	StoreKeyPrefixPrivate        byte = 4
	StoreKeyPrefixRecord         byte = 5
	StoreKeyPrefixRecordTag      byte = 6
	StoreKeyPrefixExternalRecord byte = 7
)

/*
   Transition Input Database

   ID:
   ===============
   Key:
       StoreKeyPrefixID + transition.ID
            1 byte      +    32 bytes

   Value:
       InputCount  +  InputCount * transition.Field
        4 bytes    +  (InputCount *    32 bytes)

   Reverse ID:
   ===============
   Key:
       StoreKeyPrefixReverseID + transition.Field
               1 byte          +     32 bytes

   Value:
       transition.ID
          32 bytes

   Constant / Public / Private:
   ===============
   Key:
       StoreKeyPrefix{Constant,Public,Private} + transition.Field
                      1 byte                   +     32 bytes

   Value:
       presence + (payload size + payload, when present)
        1 byte  +    4 bytes    +  X bytes

   Record:
   ===============
   Key:
       StoreKeyPrefixRecord + serial number (transition.Field)
              1 byte        +     32 bytes

   Value:
       tag (transition.Field) + origin type + origin value
              32 bytes        +    1 byte   +   32 bytes

   Record Tag:
   ===============
   Key:
       StoreKeyPrefixRecordTag + tag (transition.Field)
               1 byte          +     32 bytes

   Value:
       serial number (transition.Field)
              32 bytes

   External Record:
   ===============
   Key:
       StoreKeyPrefixExternalRecord + transition.Field
                 1 byte             +     32 bytes

   Value:
       Empty
*/
